// Package resources поднимает подсистемы run: БД и кэш.
//
// Bootstrapper выполняет шаги строго последовательно (database → cache)
// и останавливается на первой ошибке (*InitError). Бэкенды выбираются
// по имени драйвера из Registry:
//
//	database: none (заглушка), postgres (pgxpool)
//	cache:    memory (TTL map), nats (JetStream KeyValue)
//
// Поднятые handles собираются в Set и освобождаются через Set.Close
// в обратном порядке.
package resources

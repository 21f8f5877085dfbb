// Package cli реализует командную строку stagehand.
//
// # Команды
//
//	stagehand            выполнить один run (то же, что run)
//	stagehand run        выполнить один run: exit 0 при DONE, 1 при FAILED
//	stagehand config     вывести итоговую конфигурацию в YAML (секреты скрыты)
//	stagehand version    вывести версию
//
// Общий флаг --config задаёт YAML файл конфигурации. Переменные окружения
// STAGEHAND_* переопределяют значения из файла.
//
// # Вывод
//
// Логи run пишутся в stderr команды (одна строка на событие), данные
// команд config и version в stdout. Это позволяет использовать pipe:
// stagehand config | yq .
//
// Каждая команда создаётся фабричной функцией, принимающей optsFn:
// замыкание, читающее PersistentFlags после их парсинга.
package cli

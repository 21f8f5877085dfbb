// Package orchestrator выполняет один run процесса.
//
// Этапы выполняются строго последовательно в одной горутине:
//
//	IDLE → INITIALIZING (config, resources) → RUNNING (pipeline) → DONE
//
// Любая ошибка этапа переводит run в FAILED. Orchestrator — единственная
// точка обработки ошибок: он логирует ошибку с этапом и run_id, пишет
// метрики и возвращает вызывающему ту же ошибку без обёртки.
//
// Ресурсы, поднятые на этапе resources, освобождаются после pipeline
// при любом исходе.
package orchestrator

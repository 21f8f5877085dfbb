// Package telemetry обеспечивает наблюдаемость процесса.
//
// Включает:
//   - logging.go — structured logging через slog (stderr)
//   - metrics.go — Prometheus метрики этапов и run
//
// Процесс живёт один run, поэтому метрики не отдаются по HTTP,
// а при необходимости выгружаются в textfile при завершении.
package telemetry

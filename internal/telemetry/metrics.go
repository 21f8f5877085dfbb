package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stagehand"

// Outcome — итог run для метрики runs_total.
type Outcome string

const (
	OutcomeDone   Outcome = "done"
	OutcomeFailed Outcome = "failed"
)

// Metrics — Prometheus метрики одного процесса.
//
// Используется собственный registry, чтобы метрики можно было
// выгрузить в textfile и проверить в тестах без глобального состояния.
type Metrics struct {
	Registry *prometheus.Registry

	StageDuration        *prometheus.HistogramVec
	Runs                 *prometheus.CounterVec
	ResourcesInitialized *prometheus.CounterVec
	ResultsPersisted     *prometheus.CounterVec
}

// NewMetrics создаёт и регистрирует все метрики.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by outcome.",
		}, []string{"outcome"}),
		ResourcesInitialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_initialized_total",
			Help:      "Subsystems brought up, by subsystem and driver.",
		}, []string{"subsystem", "driver"}),
		ResultsPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_persisted_total",
			Help:      "Results handed to a sink, by sink.",
		}, []string{"sink"}),
	}

	m.Registry.MustRegister(
		m.StageDuration,
		m.Runs,
		m.ResourcesInitialized,
		m.ResultsPersisted,
	)

	return m
}

// ObserveStage записывает длительность этапа. Безопасен для nil.
func (m *Metrics) ObserveStage(stage string, started time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

// RunFinished увеличивает счётчик runs. Безопасен для nil.
func (m *Metrics) RunFinished(outcome Outcome) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(string(outcome)).Inc()
}

// ResourceReady увеличивает счётчик поднятых подсистем. Безопасен для nil.
func (m *Metrics) ResourceReady(subsystem, driver string) {
	if m == nil {
		return
	}
	m.ResourcesInitialized.WithLabelValues(subsystem, driver).Inc()
}

// ResultPersisted увеличивает счётчик сохранённых результатов. Безопасен для nil.
func (m *Metrics) ResultPersisted(sink string) {
	if m == nil {
		return
	}
	m.ResultsPersisted.WithLabelValues(sink).Inc()
}

// WriteTextfile выгружает метрики в файл (формат textfile collector).
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

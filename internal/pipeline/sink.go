package pipeline

import (
	"context"
	"log/slog"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/resources"
)

// Имена sink.
const (
	SinkLog      = "log"
	SinkPostgres = "postgres"
	SinkAMQP     = "amqp"
	SinkS3       = "s3"
)

// Sink сохраняет результат pipeline.
type Sink interface {
	// Name возвращает имя sink.
	Name() string

	// Persist сохраняет данные. Run ID берётся из контекста.
	Persist(ctx context.Context, data domain.ProcessedData) error

	// Close освобождает соединения sink.
	Close() error
}

// SinkFactory открывает sink по конфигурации pipeline и поднятым ресурсам.
type SinkFactory func(ctx context.Context, cfg domain.PipelineConfig, set *resources.Set, logger *slog.Logger) (Sink, error)

// DefaultSinks возвращает реестр со всеми встроенными sink.
func DefaultSinks() *resources.Registry[SinkFactory] {
	r := resources.NewRegistry[SinkFactory]()
	r.Register(SinkLog, OpenLogSink)
	r.Register(SinkPostgres, OpenPostgresSink)
	r.Register(SinkAMQP, OpenAMQPSink)
	r.Register(SinkS3, OpenS3Sink)
	return r
}

// LogSink пишет результат в лог.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink создаёт LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// OpenLogSink — SinkFactory для "log".
func OpenLogSink(_ context.Context, _ domain.PipelineConfig, _ *resources.Set, logger *slog.Logger) (Sink, error) {
	return NewLogSink(logger), nil
}

func (s *LogSink) Name() string { return SinkLog }
func (s *LogSink) Close() error { return nil }

// Persist пишет статусную строку "results saved".
func (s *LogSink) Persist(_ context.Context, data domain.ProcessedData) error {
	s.logger.Info("results saved", "result", data.Result)
	return nil
}

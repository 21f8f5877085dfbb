package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/resources"
	"github.com/shaiso/Stagehand/internal/telemetry"
)

// Runner — выполняемая часть run.
type Runner interface {
	Run(ctx context.Context) error
}

// Pipeline получает данные от Producer и сохраняет их в Sink.
type Pipeline struct {
	producer Producer
	sink     Sink
	logger   *slog.Logger
	metrics  *telemetry.Metrics

	closeOnce sync.Once
	closeErr  error
}

// New создаёт Pipeline.
func New(producer Producer, sink Sink, logger *slog.Logger, metrics *telemetry.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		producer: producer,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run выполняет produce → persist. Повторов нет.
//
// Ошибка sink возвращается как *PersistError. Повторный Run сохраняет
// те же данные ещё раз.
func (p *Pipeline) Run(ctx context.Context) error {
	data, err := p.producer.Produce(ctx)
	if err != nil {
		return fmt.Errorf("produce: %w", err)
	}
	p.logger.Debug("data produced", "result", data.Result)

	if err := p.sink.Persist(ctx, data); err != nil {
		return &PersistError{Sink: p.sink.Name(), Cause: err}
	}

	p.metrics.ResultPersisted(p.sink.Name())
	return nil
}

// Close закрывает sink. Повторный вызов возвращает тот же результат.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.sink.Close()
	})
	return p.closeErr
}

// BuilderConfig — конфигурация Builder.
type BuilderConfig struct {
	// Sinks — доступные sink (default: DefaultSinks()).
	Sinks *resources.Registry[SinkFactory]

	// Logger — если nil, берётся логгер из контекста Build.
	Logger *slog.Logger

	Metrics *telemetry.Metrics
}

// Builder собирает Pipeline из конфигурации и ресурсов run.
type Builder struct {
	sinks   *resources.Registry[SinkFactory]
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewBuilder создаёт Builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	sinks := cfg.Sinks
	if sinks == nil {
		sinks = DefaultSinks()
	}
	return &Builder{
		sinks:   sinks,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Build собирает Pipeline.
//
// Если в Set есть кэш, producer оборачивается CachedProducer.
// Ошибка открытия sink возвращается как *PersistError.
func (b *Builder) Build(ctx context.Context, cfg domain.Configuration, set *resources.Set) (*Pipeline, error) {
	logger := b.logger
	if logger == nil {
		logger = telemetry.FromContext(ctx)
	}

	var producer Producer = StaticProducer{Result: DefaultResult}
	if set != nil && set.Cache != nil {
		producer = NewCachedProducer(producer, set.Cache, telemetry.WithSubsystem(logger, resources.SubsystemCache))
	}

	name := cfg.Pipeline.Sink
	open, err := b.sinks.Get(name)
	if err != nil {
		return nil, &PersistError{Sink: name, Cause: err}
	}

	sink, err := open(ctx, cfg.Pipeline, set, telemetry.WithSink(logger, name))
	if err != nil {
		return nil, &PersistError{Sink: name, Cause: err}
	}

	return New(producer, sink, logger, b.metrics), nil
}

package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shaiso/Stagehand/internal/config"
	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/orchestrator"
	"github.com/shaiso/Stagehand/internal/pipeline"
	"github.com/shaiso/Stagehand/internal/resources"
	"github.com/shaiso/Stagehand/internal/telemetry"
)

// Options — значения общих флагов.
type Options struct {
	// ConfigFile — путь к YAML файлу конфигурации. Пустой — только defaults и env.
	ConfigFile string
}

// App связывает компоненты одного run.
type App struct {
	provider *loadedConfig
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// NewApp создаёт App. Если logger == nil, логи пишутся в logW
// в формате LOG_FORMAT с уровнем LOG_LEVEL.
func NewApp(opts Options, logger *slog.Logger, logW io.Writer) *App {
	if logger == nil {
		logger = telemetry.NewLogger(logW, os.Getenv("LOG_FORMAT"), telemetry.LogLevel())
	}

	return &App{
		provider: &loadedConfig{Provider: config.NewViper(opts.ConfigFile)},
		logger:   logger,
		metrics:  telemetry.NewMetrics(),
	}
}

// Orchestrator собирает Orchestrator со встроенными бэкендами.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	builder := pipeline.NewBuilder(pipeline.BuilderConfig{Metrics: a.metrics})

	return orchestrator.New(orchestrator.Config{
		Provider: a.provider,
		Initializer: resources.NewBootstrapper(resources.Config{Metrics: a.metrics}),
		NewRunner: func(ctx context.Context, cfg domain.Configuration, set *resources.Set) (pipeline.Runner, error) {
			return builder.Build(ctx, cfg, set)
		},
		Logger:  a.logger,
		Metrics: a.metrics,
	})
}

// Run выполняет один run и выгружает метрики, если задан metrics.textfile.
func (a *App) Run(ctx context.Context) error {
	err := a.Orchestrator().Run(ctx)
	a.writeMetrics()
	return err
}

// Metrics возвращает метрики App.
func (a *App) Metrics() *telemetry.Metrics {
	return a.metrics
}

func (a *App) writeMetrics() {
	cfg := a.provider.cfg
	if cfg == nil || cfg.Metrics.Textfile == "" {
		return
	}

	if err := a.metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		a.logger.Warn("failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		return
	}
	a.logger.Debug("metrics written", "path", cfg.Metrics.Textfile)
}

// loadedConfig запоминает последнюю успешно загруженную конфигурацию.
type loadedConfig struct {
	config.Provider
	cfg *domain.Configuration
}

func (p *loadedConfig) Load(ctx context.Context) (domain.Configuration, error) {
	cfg, err := p.Provider.Load(ctx)
	if err == nil {
		p.cfg = &cfg
	}
	return cfg, err
}

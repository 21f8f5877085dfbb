package orchestrator

import (
	"context"
	"io"
	"time"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/resources"
)

// Этапы run. Каждый возвращает ошибку этапа без обёртки.

// loadConfig — этап config.
func (o *Orchestrator) loadConfig(ctx context.Context) (domain.Configuration, error) {
	defer o.metrics.ObserveStage(string(domain.StageConfig), time.Now())

	cfg, err := o.provider.Load(ctx)
	if err != nil {
		return domain.Configuration{}, err
	}

	o.logger.Debug("configuration loaded",
		"database_driver", cfg.Database.Driver,
		"cache_driver", cfg.Cache.Driver,
		"sink", cfg.Pipeline.Sink,
	)
	return cfg, nil
}

// initResources — этап resources.
func (o *Orchestrator) initResources(ctx context.Context, cfg domain.Configuration) (*resources.Set, error) {
	defer o.metrics.ObserveStage(string(domain.StageResources), time.Now())

	return o.initializer.Initialize(ctx, cfg)
}

// runPipeline — этап pipeline. Runner, реализующий io.Closer, закрывается.
func (o *Orchestrator) runPipeline(ctx context.Context, cfg domain.Configuration, set *resources.Set) error {
	defer o.metrics.ObserveStage(string(domain.StagePipeline), time.Now())

	runner, err := o.newRunner(ctx, cfg, set)
	if err != nil {
		return err
	}

	if closer, ok := runner.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				o.logger.Warn("failed to close pipeline", "error", err)
			}
		}()
	}

	return runner.Run(ctx)
}

// releaseResources освобождает Set. Ошибка освобождения не меняет исход run.
func (o *Orchestrator) releaseResources(ctx context.Context, set *resources.Set) {
	if err := set.Close(ctx); err != nil {
		o.logger.Warn("failed to release resources", "error", err)
		return
	}
	o.logger.Debug("resources released")
}

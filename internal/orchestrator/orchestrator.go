package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Stagehand/internal/config"
	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/pipeline"
	"github.com/shaiso/Stagehand/internal/resources"
	"github.com/shaiso/Stagehand/internal/telemetry"
)

// RunnerFactory собирает pipeline из конфигурации и поднятых ресурсов.
type RunnerFactory func(ctx context.Context, cfg domain.Configuration, set *resources.Set) (pipeline.Runner, error)

// Config — конфигурация Orchestrator.
type Config struct {
	// Provider — источник конфигурации run.
	Provider config.Provider

	// Initializer — поднимает БД и кэш.
	Initializer resources.Initializer

	// NewRunner — фабрика pipeline.
	NewRunner RunnerFactory

	// Logger
	Logger *slog.Logger

	// Metrics — может быть nil.
	Metrics *telemetry.Metrics
}

// Orchestrator выполняет один run: config → resources → pipeline.
type Orchestrator struct {
	provider    config.Provider
	initializer resources.Initializer
	newRunner   RunnerFactory
	logger      *slog.Logger
	metrics     *telemetry.Metrics
	now         func() time.Time

	mu          sync.Mutex
	run         *domain.Run
	started     bool
	transitions []Transition
}

// New создаёт Orchestrator в состоянии IDLE.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		provider:    cfg.Provider,
		initializer: cfg.Initializer,
		newRunner:   cfg.NewRunner,
		logger:      logger,
		metrics:     cfg.Metrics,
		now:         time.Now,
		run:         domain.NewRun(),
	}
}

// Run выполняет run до DONE или FAILED.
//
// Ошибка этапа возвращается без изменений: *config.Error,
// *resources.InitError или *pipeline.PersistError. Повторный вызов
// возвращает ErrAlreadyStarted.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true
	runID := o.run.ID
	o.logger = telemetry.WithRunID(o.logger, runID)
	o.mu.Unlock()

	if err := o.validate(); err != nil {
		return err
	}

	ctx = domain.ContextWithRunID(ctx, runID)
	ctx = telemetry.WithLogger(ctx, o.logger)

	o.logger.Info("starting run")

	if err := o.setState(domain.StateInitializing); err != nil {
		return err
	}

	cfg, err := o.loadConfig(ctx)
	if err != nil {
		return o.fail(domain.StageConfig, err)
	}

	set, err := o.initResources(ctx, cfg)
	if err != nil {
		return o.fail(domain.StageResources, err)
	}

	if err := o.setState(domain.StateRunning); err != nil {
		o.releaseResources(ctx, set)
		return err
	}

	err = o.runPipeline(ctx, cfg, set)
	o.releaseResources(ctx, set)
	if err != nil {
		return o.fail(domain.StagePipeline, err)
	}

	if err := o.setState(domain.StateDone); err != nil {
		return err
	}

	report := o.Report()
	o.metrics.RunFinished(telemetry.OutcomeDone)
	o.logger.Info("run completed", "duration", report.Duration())
	return nil
}

// State возвращает текущее состояние run.
func (o *Orchestrator) State() domain.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.run.State
}

// Transitions возвращает историю переходов по порядку.
func (o *Orchestrator) Transitions() []Transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Transition(nil), o.transitions...)
}

// Report возвращает копию run.
func (o *Orchestrator) Report() domain.Run {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *o.run
}

func (o *Orchestrator) validate() error {
	switch {
	case o.provider == nil:
		return ErrNoProvider
	case o.initializer == nil:
		return ErrNoInitializer
	case o.newRunner == nil:
		return ErrNoRunner
	}
	return nil
}

func (o *Orchestrator) setState(to domain.State) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transition(to, "", nil)
}

// fail переводит run в FAILED, логирует и возвращает err без изменений.
func (o *Orchestrator) fail(stage domain.Stage, err error) error {
	o.mu.Lock()
	terr := o.transition(domain.StateFailed, stage, err)
	o.mu.Unlock()
	if terr != nil {
		o.logger.Error("state transition failed", "error", terr)
	}

	o.metrics.RunFinished(telemetry.OutcomeFailed)
	o.logger.Error("run failed", "stage", stage, "error", err)
	return err
}

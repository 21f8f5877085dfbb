package resources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/telemetry"
)

// Initializer поднимает подсистемы по конфигурации.
type Initializer interface {
	// Initialize возвращает готовый Set или *InitError первой упавшей подсистемы.
	Initialize(ctx context.Context, cfg domain.Configuration) (*Set, error)
}

// Config — конфигурация Bootstrapper.
type Config struct {
	// Databases — бэкенды БД (default: DefaultDatabases()).
	Databases *Registry[DatabaseFactory]

	// Caches — бэкенды кэша (default: DefaultCaches()).
	Caches *Registry[CacheFactory]

	// Logger — если nil, берётся логгер из контекста Initialize.
	Logger *slog.Logger

	Metrics *telemetry.Metrics
}

// Bootstrapper — Initializer по умолчанию.
//
// Поднимает подсистемы строго по порядку: БД, затем кэш.
// Первая же ошибка прерывает инициализацию.
type Bootstrapper struct {
	databases *Registry[DatabaseFactory]
	caches    *Registry[CacheFactory]
	logger    *slog.Logger
	metrics   *telemetry.Metrics
}

// NewBootstrapper создаёт Bootstrapper.
func NewBootstrapper(cfg Config) *Bootstrapper {
	databases := cfg.Databases
	if databases == nil {
		databases = DefaultDatabases()
	}

	caches := cfg.Caches
	if caches == nil {
		caches = DefaultCaches()
	}

	return &Bootstrapper{
		databases: databases,
		caches:    caches,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

type initStep struct {
	subsystem string
	open      func(ctx context.Context, set *Set) error
}

// Initialize поднимает БД, затем кэш.
//
// Если подсистема не поднялась, уже открытые в этом вызове handles
// освобождаются, а ошибка возвращается как *InitError.
func (b *Bootstrapper) Initialize(ctx context.Context, cfg domain.Configuration) (*Set, error) {
	steps := []initStep{
		{SubsystemDatabase, func(ctx context.Context, set *Set) error {
			return b.initDatabase(ctx, cfg.Database, set)
		}},
		{SubsystemCache, func(ctx context.Context, set *Set) error {
			return b.initCache(ctx, cfg.Cache, set)
		}},
	}

	set := &Set{}
	for _, step := range steps {
		if err := step.open(ctx, set); err != nil {
			if closeErr := set.Close(ctx); closeErr != nil {
				b.loggerFor(ctx).Warn("failed to release resources", "error", closeErr)
			}
			return nil, &InitError{Subsystem: step.subsystem, Cause: err}
		}
	}

	return set, nil
}

// loggerFor возвращает логгер Bootstrapper или логгер run из контекста.
func (b *Bootstrapper) loggerFor(ctx context.Context) *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return telemetry.FromContext(ctx)
}

func (b *Bootstrapper) initDatabase(ctx context.Context, cfg domain.DatabaseConfig, set *Set) error {
	logger := telemetry.WithSubsystem(b.loggerFor(ctx), SubsystemDatabase)

	open, err := b.databases.Get(cfg.Driver)
	if err != nil {
		return err
	}

	logger.Info("connecting database", "addr", cfg.Addr(), "driver", cfg.Driver)

	db, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("driver %q returned no handle", cfg.Driver)
	}
	set.Database = db

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	b.metrics.ResourceReady(SubsystemDatabase, cfg.Driver)
	logger.Info("database ready", "driver", db.Driver())
	return nil
}

func (b *Bootstrapper) initCache(ctx context.Context, cfg domain.CacheConfig, set *Set) error {
	logger := telemetry.WithSubsystem(b.loggerFor(ctx), SubsystemCache)

	open, err := b.caches.Get(cfg.Driver)
	if err != nil {
		return err
	}

	cache, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cache == nil {
		return fmt.Errorf("driver %q returned no handle", cfg.Driver)
	}
	set.Cache = cache

	b.metrics.ResourceReady(SubsystemCache, cfg.Driver)
	logger.Info("cache initialized", "ttl", fmt.Sprintf("%ds", cfg.TTLSeconds), "driver", cfg.Driver)
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/repo"
	"github.com/shaiso/Stagehand/internal/resources"
)

// PostgresSink вставляет результат в таблицу результатов.
//
// Пул принадлежит Set, поэтому Close ничего не освобождает.
type PostgresSink struct {
	repo   *repo.ResultRepo
	table  string
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresSink создаёт sink поверх готового подключения.
func NewPostgresSink(db repo.DB, table string, logger *slog.Logger) *PostgresSink {
	return &PostgresSink{
		repo:   repo.NewResultRepo(db, table),
		table:  table,
		logger: logger,
		now:    time.Now,
	}
}

// OpenPostgresSink — SinkFactory для "postgres".
//
// Требует database.driver=postgres; создаёт таблицу, если её нет.
func OpenPostgresSink(ctx context.Context, cfg domain.PipelineConfig, set *resources.Set, logger *slog.Logger) (Sink, error) {
	var pg *resources.Postgres
	if set != nil {
		pg, _ = set.Database.(*resources.Postgres)
	}
	if pg == nil {
		driver := "unset"
		if set != nil && set.Database != nil {
			driver = set.Database.Driver()
		}
		return nil, fmt.Errorf("%w: database driver is %s", ErrRequiresPostgres, driver)
	}

	sink := NewPostgresSink(pg.Pool(), cfg.Table, logger)
	if err := sink.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *PostgresSink) Name() string { return SinkPostgres }
func (s *PostgresSink) Close() error { return nil }

// Persist вставляет одну строку.
func (s *PostgresSink) Persist(ctx context.Context, data domain.ProcessedData) error {
	res := &repo.Result{
		ID:        uuid.New(),
		RunID:     domain.RunIDFromContext(ctx),
		Data:      data,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return err
	}

	s.logger.Info("results saved", "result", data.Result, "table", s.table, "id", res.ID)
	return nil
}

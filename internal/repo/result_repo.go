package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shaiso/Stagehand/internal/domain"
)

// DB — подмножество pgxpool.Pool, нужное репозиторию.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Result — сохранённый результат pipeline.
type Result struct {
	ID        uuid.UUID
	RunID     uuid.UUID
	Data      domain.ProcessedData
	CreatedAt time.Time
}

// ResultRepo — репозиторий для работы с результатами.
type ResultRepo struct {
	db    DB
	table string
}

// NewResultRepo создаёт новый ResultRepo для таблицы table.
func NewResultRepo(db DB, table string) *ResultRepo {
	return &ResultRepo{
		db:    db,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// EnsureSchema создаёт таблицу результатов, если её нет.
func (r *ResultRepo) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         UUID PRIMARY KEY,
			run_id     UUID,
			result     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, r.table)
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	return nil
}

// Create сохраняет результат.
func (r *ResultRepo) Create(ctx context.Context, res *Result) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, run_id, result, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.table)
	_, err := r.db.Exec(ctx, query,
		res.ID,
		nullUUID(res.RunID),
		res.Data.Result,
		res.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// GetByID возвращает результат по ID.
func (r *ResultRepo) GetByID(ctx context.Context, id uuid.UUID) (*Result, error) {
	query := fmt.Sprintf(`
		SELECT id, run_id, result, created_at
		FROM %s
		WHERE id = $1
	`, r.table)

	var res Result
	var runID *uuid.UUID
	err := r.db.QueryRow(ctx, query, id).Scan(&res.ID, &runID, &res.Data.Result, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}
	if runID != nil {
		res.RunID = *runID
	}
	return &res, nil
}

// nullUUID возвращает nil для uuid.Nil.
func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

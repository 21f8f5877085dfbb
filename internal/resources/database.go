package resources

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/repo"
)

// DatabaseFactory открывает подсистему БД.
type DatabaseFactory func(ctx context.Context, cfg domain.DatabaseConfig, logger *slog.Logger) (Database, error)

// DefaultDatabases возвращает реестр со всеми встроенными бэкендами БД.
func DefaultDatabases() *Registry[DatabaseFactory] {
	r := NewRegistry[DatabaseFactory]()
	r.Register("none", OpenStubDatabase)
	r.Register("postgres", OpenPostgres)
	return r
}

// --- none ---

// StubDatabase — заглушка БД: только отмечает готовность, соединений не держит.
type StubDatabase struct {
	addr string
}

// OpenStubDatabase создаёт заглушку. Никогда не возвращает ошибку.
func OpenStubDatabase(_ context.Context, cfg domain.DatabaseConfig, _ *slog.Logger) (Database, error) {
	return &StubDatabase{addr: cfg.Addr()}, nil
}

func (d *StubDatabase) Driver() string { return "none" }
func (d *StubDatabase) Addr() string   { return d.addr }

func (d *StubDatabase) Ping(context.Context) error  { return nil }
func (d *StubDatabase) Close(context.Context) error { return nil }

// --- postgres ---

// Postgres — БД на пуле pgx.
type Postgres struct {
	addr string
	pool *pgxpool.Pool
}

// OpenPostgres открывает пул и проверяет соединение.
func OpenPostgres(ctx context.Context, cfg domain.DatabaseConfig, logger *slog.Logger) (Database, error) {
	pool, err := repo.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("postgres pool opened", "max_conns", pool.Config().MaxConns)
	return &Postgres{addr: cfg.Addr(), pool: pool}, nil
}

func (p *Postgres) Driver() string { return "postgres" }
func (p *Postgres) Addr() string   { return p.addr }

// Pool возвращает пул соединений для репозиториев.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// Ping проверяет доступность БД.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close закрывает пул.
func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

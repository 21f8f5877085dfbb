package resources

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Handle — признак готовности подсистемы.
//
// Заглушки не держат никакого состояния соединения; реальные бэкенды
// освобождают соединения в Close.
type Handle interface {
	// Driver возвращает имя бэкенда ("none", "postgres", "memory", "nats").
	Driver() string

	// Close освобождает ресурсы handle.
	Close(ctx context.Context) error
}

// Database — handle подсистемы БД.
type Database interface {
	Handle

	// Addr возвращает адрес в виде host:port.
	Addr() string

	// Ping проверяет доступность БД.
	Ping(ctx context.Context) error
}

// Cache — handle подсистемы кэша.
type Cache interface {
	Handle

	// TTL возвращает время жизни записей. 0 — без истечения.
	TTL() time.Duration

	// Get возвращает значение и признак попадания.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set сохраняет значение с TTL кэша.
	Set(ctx context.Context, key string, value []byte) error
}

// Set — набор поднятых подсистем.
//
// Принадлежит оркестратору на всё время run.
type Set struct {
	Database Database
	Cache    Cache
}

// Close освобождает подсистемы в порядке, обратном инициализации:
// сначала кэш, затем БД. Повторный вызов ничего не делает.
func (s *Set) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var errs []error

	if s.Cache != nil {
		if err := s.Cache.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
		s.Cache = nil
	}

	if s.Database != nil {
		if err := s.Database.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		s.Database = nil
	}

	return errors.Join(errs...)
}

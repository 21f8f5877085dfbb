package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/shaiso/Stagehand/internal/domain"
)

// CacheFactory открывает подсистему кэша.
type CacheFactory func(ctx context.Context, cfg domain.CacheConfig, logger *slog.Logger) (Cache, error)

// DefaultCaches возвращает реестр со всеми встроенными бэкендами кэша.
func DefaultCaches() *Registry[CacheFactory] {
	r := NewRegistry[CacheFactory]()
	r.Register("memory", OpenMemoryCache)
	r.Register("nats", OpenNATSCache)
	return r
}

// --- memory ---

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache — кэш в памяти процесса с TTL.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
	closed  bool
}

// NewMemoryCache создаёт кэш. ttl == 0 — записи не истекают.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

// OpenMemoryCache — CacheFactory для "memory".
func OpenMemoryCache(_ context.Context, cfg domain.CacheConfig, _ *slog.Logger) (Cache, error) {
	return NewMemoryCache(cfg.TTL(), nil), nil
}

func (c *MemoryCache) Driver() string     { return "memory" }
func (c *MemoryCache) TTL() time.Duration { return c.ttl }

// Get возвращает значение, если оно есть и не истекло.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false, ErrClosed
	}

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set сохраняет копию значения.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	e := memoryEntry{value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[key] = e
	return nil
}

// Close очищает кэш.
func (c *MemoryCache) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.entries = nil
	return nil
}

// --- nats ---

// NATSCache — кэш на JetStream KeyValue bucket.
// TTL задаётся на уровне bucket.
type NATSCache struct {
	nc  *nats.Conn
	kv  jetstream.KeyValue
	ttl time.Duration
}

// OpenNATSCache подключается к NATS и открывает (или создаёт) bucket.
func OpenNATSCache(ctx context.Context, cfg domain.CacheConfig, logger *slog.Logger) (Cache, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("stagehand"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open jetstream: %w", err)
	}

	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "stagehand cache",
		TTL:         cfg.TTL(),
	})
	if errors.Is(err, jetstream.ErrBucketExists) {
		logger.Debug("using existing key value bucket", "bucket", cfg.Bucket)
		kv, err = js.KeyValue(ctx, cfg.Bucket)
	}
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open key value %q: %w", cfg.Bucket, err)
	}

	return &NATSCache{nc: nc, kv: kv, ttl: cfg.TTL()}, nil
}

func (c *NATSCache) Driver() string     { return "nats" }
func (c *NATSCache) TTL() time.Duration { return c.ttl }

// Get читает ключ из bucket.
func (c *NATSCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := c.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return entry.Value(), true, nil
}

// Set записывает ключ в bucket.
func (c *NATSCache) Set(ctx context.Context, key string, value []byte) error {
	if _, err := c.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

// Close закрывает соединение с NATS.
func (c *NATSCache) Close(context.Context) error {
	c.nc.Close()
	return nil
}

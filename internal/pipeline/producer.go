package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/resources"
)

// DefaultResult — результат StaticProducer.
const DefaultResult = "processed_data"

// CacheKey — ключ результата в кэше.
//
// Без ':' и '/', чтобы ключ был допустим и для NATS KeyValue.
const CacheKey = "pipeline.result"

// Producer получает данные для сохранения.
type Producer interface {
	Produce(ctx context.Context) (domain.ProcessedData, error)
}

// StaticProducer возвращает фиксированный результат.
type StaticProducer struct {
	Result string
}

// Produce возвращает {Result}. Пустой Result заменяется на DefaultResult.
func (p StaticProducer) Produce(context.Context) (domain.ProcessedData, error) {
	result := p.Result
	if result == "" {
		result = DefaultResult
	}
	return domain.ProcessedData{Result: result}, nil
}

// CachedProducer переиспользует результат из кэша run.
//
// Ошибки кэша только логируются: результат всегда совпадает с результатом next.
type CachedProducer struct {
	next   Producer
	cache  resources.Cache
	logger *slog.Logger
}

// NewCachedProducer оборачивает next кэшем.
func NewCachedProducer(next Producer, cache resources.Cache, logger *slog.Logger) *CachedProducer {
	return &CachedProducer{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

// Produce возвращает значение из кэша или вычисляет и кэширует его.
func (p *CachedProducer) Produce(ctx context.Context) (domain.ProcessedData, error) {
	raw, ok, err := p.cache.Get(ctx, CacheKey)
	switch {
	case err != nil:
		p.logger.Warn("cache read failed", "key", CacheKey, "error", err)
	case ok:
		var data domain.ProcessedData
		if err := json.Unmarshal(raw, &data); err == nil {
			p.logger.Debug("cache hit", "key", CacheKey)
			return data, nil
		}
		p.logger.Warn("cache entry corrupted", "key", CacheKey)
	}

	data, err := p.next.Produce(ctx)
	if err != nil {
		return domain.ProcessedData{}, err
	}

	raw, err = json.Marshal(data)
	if err != nil {
		return data, nil
	}
	if err := p.cache.Set(ctx, CacheKey, raw); err != nil {
		p.logger.Warn("cache write failed", "key", CacheKey, "error", err)
	}

	return data, nil
}

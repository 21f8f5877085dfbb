package config

import (
	"strings"

	"github.com/shaiso/Stagehand/internal/domain"
)

// Validate проверяет конфигурацию.
// Возвращает первую найденную ошибку как *Error.
func Validate(cfg domain.Configuration) error {
	if strings.TrimSpace(cfg.Database.Driver) == "" {
		return fieldError("database.driver", "is required")
	}
	if strings.TrimSpace(cfg.Database.Host) == "" {
		return fieldError("database.host", "is required")
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		return fieldError("database.port", "must be in range 1..65535")
	}
	if cfg.Database.MaxConns < 0 {
		return fieldError("database.max_conns", "must not be negative")
	}
	if cfg.Database.ConnectTimeout < 0 {
		return fieldError("database.connect_timeout", "must not be negative")
	}

	if strings.TrimSpace(cfg.Cache.Driver) == "" {
		return fieldError("cache.driver", "is required")
	}
	if cfg.Cache.TTLSeconds < 0 {
		return fieldError("cache.ttl_seconds", "must not be negative")
	}

	if strings.TrimSpace(cfg.Pipeline.Sink) == "" {
		return fieldError("pipeline.sink", "is required")
	}
	if strings.Contains(cfg.Pipeline.S3.Endpoint, "://") {
		return fieldError("pipeline.s3.endpoint", "must not include scheme")
	}

	return nil
}

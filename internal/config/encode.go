package config

import (
	"fmt"
	"io"
	"net/url"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Stagehand/internal/domain"
)

const masked = "********"

// Encode пишет конфигурацию в w в формате YAML. Секреты маскируются.
func Encode(w io.Writer, cfg domain.Configuration) error {
	cfg = Redact(cfg)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// Redact возвращает копию конфигурации без секретов.
func Redact(cfg domain.Configuration) domain.Configuration {
	if cfg.Database.Password != "" {
		cfg.Database.Password = masked
	}
	if cfg.Pipeline.S3.SecretKey != "" {
		cfg.Pipeline.S3.SecretKey = masked
	}
	if u, err := url.Parse(cfg.Pipeline.AMQP.URL); err == nil && u.User != nil {
		cfg.Pipeline.AMQP.URL = u.Redacted()
	}
	return cfg
}

package config

import (
	"context"
	"strings"

	"github.com/spf13/viper"

	"github.com/shaiso/Stagehand/internal/domain"
)

// EnvPrefix — префикс переменных окружения (STAGEHAND_DATABASE_PORT и т.д.).
const EnvPrefix = "STAGEHAND"

// Viper — провайдер, собирающий конфигурацию из нескольких слоёв.
//
// Приоритет (от низшего к высшему):
//   - значения по умолчанию (Defaults)
//   - YAML файл, если указан
//   - переменные окружения STAGEHAND_*
type Viper struct {
	v    *viper.Viper
	file string
}

// NewViper создаёт провайдер. file может быть пустым.
func NewViper(file string) *Viper {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Viper{v: v, file: file}
}

// Load читает файл (если задан), накладывает окружение и валидирует результат.
func (p *Viper) Load(_ context.Context) (domain.Configuration, error) {
	if p.file != "" {
		p.v.SetConfigFile(p.file)
		if err := p.v.ReadInConfig(); err != nil {
			return domain.Configuration{}, &Error{Field: "file", Reason: "read " + p.file, Err: err}
		}
	}

	var cfg domain.Configuration
	if err := p.v.Unmarshal(&cfg); err != nil {
		return domain.Configuration{}, &Error{Reason: "decode", Err: err}
	}

	if err := Validate(cfg); err != nil {
		return domain.Configuration{}, err
	}

	return cfg, nil
}

// setDefaults регистрирует все ключи в viper.
// Без этого AutomaticEnv не увидит переменные для ключей, которых нет в файле.
func setDefaults(v *viper.Viper, d domain.Configuration) {
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.name", d.Database.Name)
	v.SetDefault("database.sslmode", d.Database.SSLMode)
	v.SetDefault("database.max_conns", d.Database.MaxConns)
	v.SetDefault("database.connect_timeout", d.Database.ConnectTimeout)

	v.SetDefault("cache.driver", d.Cache.Driver)
	v.SetDefault("cache.ttl_seconds", d.Cache.TTLSeconds)
	v.SetDefault("cache.url", d.Cache.URL)
	v.SetDefault("cache.bucket", d.Cache.Bucket)

	v.SetDefault("pipeline.sink", d.Pipeline.Sink)
	v.SetDefault("pipeline.table", d.Pipeline.Table)
	v.SetDefault("pipeline.amqp.url", d.Pipeline.AMQP.URL)
	v.SetDefault("pipeline.amqp.exchange", d.Pipeline.AMQP.Exchange)
	v.SetDefault("pipeline.amqp.queue", d.Pipeline.AMQP.Queue)
	v.SetDefault("pipeline.amqp.routing_key", d.Pipeline.AMQP.RoutingKey)
	v.SetDefault("pipeline.s3.endpoint", d.Pipeline.S3.Endpoint)
	v.SetDefault("pipeline.s3.access_key", d.Pipeline.S3.AccessKey)
	v.SetDefault("pipeline.s3.secret_key", d.Pipeline.S3.SecretKey)
	v.SetDefault("pipeline.s3.region", d.Pipeline.S3.Region)
	v.SetDefault("pipeline.s3.use_ssl", d.Pipeline.S3.UseSSL)
	v.SetDefault("pipeline.s3.bucket", d.Pipeline.S3.Bucket)
	v.SetDefault("pipeline.s3.prefix", d.Pipeline.S3.Prefix)

	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}

package domain

import (
	"net"
	"strconv"
	"time"
)

// Configuration — конфигурация одного run.
//
// Создаётся один раз ConfigProvider'ом и дальше передаётся по значению.
// После создания не изменяется.
type Configuration struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// DatabaseConfig — параметры подсистемы БД.
type DatabaseConfig struct {
	// Driver — бэкенд: "none" (заглушка) или "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode,omitempty"`

	// MaxConns — размер пула (только для postgres).
	MaxConns int32 `mapstructure:"max_conns" yaml:"max_conns,omitempty"`

	// ConnectTimeout — таймаут на подключение и ping.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout,omitempty"`
}

// Addr возвращает адрес в виде host:port.
func (c DatabaseConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CacheConfig — параметры подсистемы кэша.
type CacheConfig struct {
	// Driver — бэкенд: "memory" или "nats".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// TTLSeconds — время жизни записей в секундах. 0 — без истечения.
	TTLSeconds int `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`

	// URL — адрес NATS (только для nats).
	URL string `mapstructure:"url" yaml:"url,omitempty"`

	// Bucket — имя KeyValue bucket (только для nats).
	Bucket string `mapstructure:"bucket" yaml:"bucket,omitempty"`
}

// TTL возвращает TTLSeconds как time.Duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// PipelineConfig — параметры этапа выполнения.
type PipelineConfig struct {
	// Sink — куда сохраняются результаты: "log", "postgres", "amqp", "s3".
	Sink string `mapstructure:"sink" yaml:"sink"`

	// Table — таблица результатов для sink "postgres".
	Table string `mapstructure:"table" yaml:"table,omitempty"`

	AMQP AMQPConfig `mapstructure:"amqp" yaml:"amqp,omitempty"`
	S3   S3Config   `mapstructure:"s3" yaml:"s3,omitempty"`
}

// AMQPConfig — параметры sink "amqp".
type AMQPConfig struct {
	URL        string `mapstructure:"url" yaml:"url,omitempty"`
	Exchange   string `mapstructure:"exchange" yaml:"exchange,omitempty"`
	Queue      string `mapstructure:"queue" yaml:"queue,omitempty"`
	RoutingKey string `mapstructure:"routing_key" yaml:"routing_key,omitempty"`
}

// S3Config — параметры sink "s3".
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl,omitempty"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty"`
}

// MetricsConfig — куда выгружать метрики по завершении run.
type MetricsConfig struct {
	// Textfile — путь к файлу в формате Prometheus text exposition.
	// Пусто — метрики не выгружаются.
	Textfile string `mapstructure:"textfile" yaml:"textfile,omitempty"`
}

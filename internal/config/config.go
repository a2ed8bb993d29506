package config

import "time"

// Config is the root configuration shared by the api and worker binaries.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Server    ServerConfig    `yaml:"server"`
	Database  DBConfig        `yaml:"database"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Channel   ChannelConfig   `yaml:"channel"`
	Worker    WorkerConfig    `yaml:"worker"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this process.
type InstanceConfig struct {
	ID string `yaml:"id"`
	AZ string `yaml:"az"`
}

// ServerConfig holds the acceptance API settings.
type ServerConfig struct {
	Port int `yaml:"port"`

	// AcceptTimeout bounds each of the two acceptance-path I/O calls
	// (lifecycle create, channel publish). A timeout surfaces as a 503.
	AcceptTimeout time.Duration `yaml:"accept_timeout"`
}

// DBConfig holds the trade store PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// LifecycleConfig holds the Redis-backed request status store settings.
type LifecycleConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	// RequestTTL bounds how long a resolved request remains pollable.
	RequestTTL time.Duration `yaml:"request_ttl"`
}

// ChannelConfig holds the Kafka channel settings.
type ChannelConfig struct {
	Brokers []string      `yaml:"brokers"`
	Topic   string        `yaml:"topic"`
	GroupID string        `yaml:"group_id"`
	MaxWait time.Duration `yaml:"max_wait"`
}

// WorkerConfig holds consumer-side retry settings.
type WorkerConfig struct {
	// RetryBudget is the number of attempts for a trade store write before
	// the request is resolved FAILED. Must be >= 1.
	RetryBudget int `yaml:"retry_budget"`

	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	RetryMaxDelay  time.Duration `yaml:"retry_max_delay"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

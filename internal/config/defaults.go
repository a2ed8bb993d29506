package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerPort     = 8080
	DefaultAcceptTimeout  = 200 * time.Millisecond
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultRedisAddr      = "localhost:6379"
	DefaultRequestTTL     = 7 * 24 * time.Hour
	DefaultTopic          = "trades-inbound"
	DefaultGroupID        = "trade-store-worker"
	DefaultMaxWait        = 500 * time.Millisecond
	DefaultRetryBudget    = 5
	DefaultRetryBaseDelay = 100 * time.Millisecond
	DefaultRetryMaxDelay  = 5 * time.Second
	DefaultMetricsPort    = 9090
	DefaultMetricsPath    = "/metrics"
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.AcceptTimeout == 0 {
		c.Server.AcceptTimeout = DefaultAcceptTimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Lifecycle defaults
	if c.Lifecycle.Addr == "" {
		c.Lifecycle.Addr = DefaultRedisAddr
	}
	if c.Lifecycle.RequestTTL == 0 {
		c.Lifecycle.RequestTTL = DefaultRequestTTL
	}

	// Channel defaults
	if len(c.Channel.Brokers) == 0 {
		c.Channel.Brokers = []string{"localhost:9092"}
	}
	if c.Channel.Topic == "" {
		c.Channel.Topic = DefaultTopic
	}
	if c.Channel.GroupID == "" {
		c.Channel.GroupID = DefaultGroupID
	}
	if c.Channel.MaxWait == 0 {
		c.Channel.MaxWait = DefaultMaxWait
	}

	// Worker defaults
	if c.Worker.RetryBudget == 0 {
		c.Worker.RetryBudget = DefaultRetryBudget
	}
	if c.Worker.RetryBaseDelay == 0 {
		c.Worker.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.Worker.RetryMaxDelay == 0 {
		c.Worker.RetryMaxDelay = DefaultRetryMaxDelay
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

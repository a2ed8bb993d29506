package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.AcceptTimeout <= 0 {
		return errors.New("server.accept_timeout must be positive")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Lifecycle.Addr == "" {
		return errors.New("lifecycle.addr is required")
	}
	if c.Lifecycle.RequestTTL <= 0 {
		return errors.New("lifecycle.request_ttl must be positive")
	}

	if len(c.Channel.Brokers) == 0 {
		return errors.New("channel.brokers is required")
	}
	if c.Channel.Topic == "" {
		return errors.New("channel.topic is required")
	}
	if c.Channel.GroupID == "" {
		return errors.New("channel.group_id is required")
	}

	if c.Worker.RetryBudget < 1 {
		return errors.New("worker.retry_budget must be >= 1")
	}
	if c.Worker.RetryBaseDelay <= 0 {
		return errors.New("worker.retry_base_delay must be positive")
	}
	if c.Worker.RetryMaxDelay < c.Worker.RetryBaseDelay {
		return fmt.Errorf("worker.retry_max_delay (%v) cannot be below retry_base_delay (%v)",
			c.Worker.RetryMaxDelay, c.Worker.RetryBaseDelay)
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

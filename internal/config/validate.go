package config

import (
	"errors"
	"fmt"

	"github.com/rickgao/thirteenf/internal/locator"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Edgar.UserAgent == "" {
		return errors.New("edgar.user_agent is required")
	}
	if c.Edgar.Timeout <= 0 {
		return errors.New("edgar.timeout must be positive")
	}

	switch c.RateLimit.Kind {
	case RateLimitWindow, RateLimitTokenBucket:
		if c.RateLimit.Requests < 1 {
			return errors.New("rate_limit.requests must be >= 1")
		}
		if c.RateLimit.Period <= 0 {
			return errors.New("rate_limit.period must be positive")
		}
	case RateLimitNone:
	default:
		return fmt.Errorf("rate_limit.kind must be one of window, token_bucket, none, got %q", c.RateLimit.Kind)
	}

	if c.Cache.MaxEntries < -1 {
		return errors.New("cache.max_entries must be >= -1")
	}

	if c.Database.Enabled {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Refresher.Concurrency < 1 {
		return errors.New("refresher.concurrency must be >= 1")
	}
	for _, cik := range c.Refresher.Watchlist {
		if _, err := locator.NormalizeFundID(cik); err != nil {
			return fmt.Errorf("refresher.watchlist: %w", err)
		}
	}

	if c.Display.MaxRows < 1 {
		return errors.New("display.max_rows must be >= 1")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
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

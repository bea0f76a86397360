package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDataURL         = "https://data.sec.gov"
	DefaultArchivesURL     = "https://www.sec.gov/Archives/edgar/data"
	DefaultEdgarTimeout    = 30 * time.Second
	DefaultFormType        = "13F-HR"
	DefaultInfoTableName   = "infotable.xml"
	DefaultRateLimitKind   = RateLimitWindow
	DefaultRequests        = 10
	DefaultPeriod          = 1 * time.Second
	DefaultServerAddr      = ":8080"
	DefaultCacheTTL        = 6 * time.Hour
	DefaultCacheEntries    = 256
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultRefreshInterval = 6 * time.Hour
	DefaultRefreshWorkers  = 2
	DefaultMaxRows         = 1000
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

func (c *Config) applyDefaults() {
	// EDGAR defaults
	if c.Edgar.DataURL == "" {
		c.Edgar.DataURL = DefaultDataURL
	}
	if c.Edgar.ArchivesURL == "" {
		c.Edgar.ArchivesURL = DefaultArchivesURL
	}
	if c.Edgar.Timeout == 0 {
		c.Edgar.Timeout = DefaultEdgarTimeout
	}
	if c.Edgar.FormType == "" {
		c.Edgar.FormType = DefaultFormType
	}
	if c.Edgar.InfoTableName == "" {
		c.Edgar.InfoTableName = DefaultInfoTableName
	}

	// Rate limit defaults
	if c.RateLimit.Kind == "" {
		c.RateLimit.Kind = DefaultRateLimitKind
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = DefaultRequests
	}
	if c.RateLimit.Period == 0 {
		c.RateLimit.Period = DefaultPeriod
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	// Cache defaults
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheEntries
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

	// Refresher defaults
	if c.Refresher.Interval == 0 {
		c.Refresher.Interval = DefaultRefreshInterval
	}
	if c.Refresher.Concurrency == 0 {
		c.Refresher.Concurrency = DefaultRefreshWorkers
	}

	// Display defaults
	if c.Display.MaxRows == 0 {
		c.Display.MaxRows = DefaultMaxRows
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

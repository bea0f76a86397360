package config

import "time"

// Config is the root configuration shared by the server and the CLI.
type Config struct {
	Edgar     EdgarConfig     `yaml:"edgar"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Database  DBConfig        `yaml:"database"`
	Refresher RefresherConfig `yaml:"refresher"`
	Display   DisplayConfig   `yaml:"display"`
	Log       LogConfig       `yaml:"log"`
}

// EdgarConfig holds SEC EDGAR settings.
type EdgarConfig struct {
	DataURL       string        `yaml:"data_url"`
	ArchivesURL   string        `yaml:"archives_url"`
	UserAgent     string        `yaml:"user_agent"` // SEC requires "Name email@example.com"
	Timeout       time.Duration `yaml:"timeout"`
	FormType      string        `yaml:"form_type"`
	InfoTableName string        `yaml:"infotable_name"`
}

// Rate limiter kinds.
const (
	RateLimitWindow      = "window"
	RateLimitTokenBucket = "token_bucket"
	RateLimitNone        = "none"
)

// RateLimitConfig holds the outbound request quota.
type RateLimitConfig struct {
	Kind     string        `yaml:"kind"`
	Requests int           `yaml:"requests"`
	Period   time.Duration `yaml:"period"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// CacheConfig holds snapshot cache settings. MaxEntries of -1 disables caching.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// DBConfig holds the optional document store connection.
type DBConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RefresherConfig holds cache warmer settings.
type RefresherConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Watchlist   []string      `yaml:"watchlist"` // Fund CIKs
}

// DisplayConfig holds report rendering settings.
type DisplayConfig struct {
	MaxRows int `yaml:"max_rows"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

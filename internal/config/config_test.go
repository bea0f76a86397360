package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
edgar:
  user_agent: Research Desk research@example.com
  timeout: 10s
rate_limit:
  kind: token_bucket
  requests: 5
  period: 2s
server:
  addr: ":9000"
  allow_origins:
    - http://localhost:3000
database:
  enabled: true
  host: localhost
  port: 5432
  name: thirteenf
  user: testuser
  password: testpass
refresher:
  interval: 1h
  watchlist:
    - "1067983"
    - "0001346824"
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Edgar.UserAgent != "Research Desk research@example.com" {
		t.Errorf("Edgar.UserAgent = %q", cfg.Edgar.UserAgent)
	}
	if cfg.Edgar.Timeout != 10*time.Second {
		t.Errorf("Edgar.Timeout = %v, want 10s", cfg.Edgar.Timeout)
	}
	if cfg.RateLimit.Kind != RateLimitTokenBucket || cfg.RateLimit.Requests != 5 || cfg.RateLimit.Period != 2*time.Second {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.Server.Addr != ":9000" || len(cfg.Server.AllowOrigins) != 1 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if !cfg.Database.Enabled || cfg.Database.Host != "localhost" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if len(cfg.Refresher.Watchlist) != 2 || cfg.Refresher.Watchlist[1] != "0001346824" {
		t.Errorf("Refresher.Watchlist = %v", cfg.Refresher.Watchlist)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")
	t.Setenv("TEST_SEC_AGENT", "Env Agent env@example.com")

	yaml := `
edgar:
  user_agent: ${TEST_SEC_AGENT}
database:
  host: localhost
  name: thirteenf
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
	if cfg.Edgar.UserAgent != "Env Agent env@example.com" {
		t.Errorf("Edgar.UserAgent = %q", cfg.Edgar.UserAgent)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
edgar:
  user_agent: Research research@example.com
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Edgar.DataURL != DefaultDataURL {
		t.Errorf("Edgar.DataURL = %q, want default %q", cfg.Edgar.DataURL, DefaultDataURL)
	}
	if cfg.Edgar.Timeout != DefaultEdgarTimeout {
		t.Errorf("Edgar.Timeout = %v, want default %v", cfg.Edgar.Timeout, DefaultEdgarTimeout)
	}
	if cfg.Edgar.FormType != "13F-HR" {
		t.Errorf("Edgar.FormType = %q, want 13F-HR", cfg.Edgar.FormType)
	}
	if cfg.RateLimit.Kind != RateLimitWindow || cfg.RateLimit.Requests != 10 || cfg.RateLimit.Period != time.Second {
		t.Errorf("RateLimit = %+v, want window 10/1s", cfg.RateLimit)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Refresher.Interval != DefaultRefreshInterval {
		t.Errorf("Refresher.Interval = %v, want default %v", cfg.Refresher.Interval, DefaultRefreshInterval)
	}
	if cfg.Display.MaxRows != 1000 {
		t.Errorf("Display.MaxRows = %d, want 1000", cfg.Display.MaxRows)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefaultUserAgentFromEnv(t *testing.T) {
	t.Setenv(EnvUserAgent, "Fallback fallback@example.com")

	cfg := Default()
	if cfg.Edgar.UserAgent != "Fallback fallback@example.com" {
		t.Errorf("Edgar.UserAgent = %q", cfg.Edgar.UserAgent)
	}
}

func TestLoadUserAgentFromEnv(t *testing.T) {
	t.Setenv(EnvUserAgent, "  Fallback fallback@example.com ")

	t.Run("empty in file", func(t *testing.T) {
		cfg, err := Load(writeTempFile(t, "server:\n  addr: \":9000\"\n"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Edgar.UserAgent != "Fallback fallback@example.com" {
			t.Errorf("Edgar.UserAgent = %q, want env fallback", cfg.Edgar.UserAgent)
		}
		if cfg.Edgar.DataURL != "" {
			t.Errorf("Load applied defaults: DataURL = %q", cfg.Edgar.DataURL)
		}
	})

	t.Run("set in file", func(t *testing.T) {
		cfg, err := LoadAndValidate(writeTempFile(t, "edgar:\n  user_agent: Desk desk@example.com\n"))
		if err != nil {
			t.Fatalf("LoadAndValidate failed: %v", err)
		}
		if cfg.Edgar.UserAgent != "Desk desk@example.com" {
			t.Errorf("Edgar.UserAgent = %q, want value from file", cfg.Edgar.UserAgent)
		}
	})
}

func TestLoadAndValidate(t *testing.T) {
	t.Setenv(EnvUserAgent, "")

	path := writeTempFile(t, "server:\n  addr: \":8080\"\n")
	_, err := LoadAndValidate(path)
	if err == nil || !strings.Contains(err.Error(), "edgar.user_agent is required") {
		t.Errorf("LoadAndValidate() error = %v, want user_agent error", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}

	bad := writeTempFile(t, "edgar: [unterminated")
	if _, err := Load(bad); err == nil {
		t.Error("Load() expected error for invalid yaml")
	}
}

func validConfig() Config {
	cfg := Config{
		Edgar: EdgarConfig{UserAgent: "Research research@example.com"},
	}
	cfg.applyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "unknown limiter",
			mutate:  func(c *Config) { c.RateLimit.Kind = "leaky" },
			wantErr: `rate_limit.kind must be one of window, token_bucket, none, got "leaky"`,
		},
		{
			name:    "zero requests",
			mutate:  func(c *Config) { c.RateLimit.Requests = -1 },
			wantErr: "rate_limit.requests must be >= 1",
		},
		{
			name:    "no limiter ignores quota",
			mutate:  func(c *Config) { c.RateLimit = RateLimitConfig{Kind: RateLimitNone} },
			wantErr: "",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Enabled = true },
			wantErr: "database.host is required",
		},
		{
			name: "database port out of range",
			mutate: func(c *Config) {
				c.Database = DBConfig{Enabled: true, Host: "localhost", Port: 70000, MaxConns: 5}
			},
			wantErr: "database.port must be between 1 and 65535, got 70000",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Database = DBConfig{Enabled: true, Host: "localhost", Port: 5432, Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10}
			},
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "disabled database is not validated",
			mutate:  func(c *Config) { c.Database = DBConfig{} },
			wantErr: "",
		},
		{
			name:    "invalid watchlist entry",
			mutate:  func(c *Config) { c.Refresher.Watchlist = []string{"1067983", "BRK"} },
			wantErr: `refresher.watchlist: invalid fund identifier: "BRK"`,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: `log.level must be one of debug, info, warn, error, got "trace"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestLogConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "cik", "0001067983")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, `"cik":"0001067983"`) {
		t.Errorf("output = %q, want json attrs", out)
	}

	if got := (LogConfig{Level: "nonsense"}).SlogLevel(); got != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", got)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvUserAgent supplies edgar.user_agent when the file leaves it empty.
const EnvUserAgent = "THIRTEENF_USER_AGENT"

// Load reads a YAML config file. ${VAR} references are expanded before
// parsing, and an empty edgar.user_agent is taken from THIRTEENF_USER_AGENT.
// No defaults are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.userAgentFromEnv()

	return &cfg, nil
}

// LoadWithDefaults is Load followed by the defaults in defaults.go.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate is LoadWithDefaults followed by Validate. This is what the
// binaries use.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given: every
// default applied and the user agent taken from THIRTEENF_USER_AGENT.
func Default() *Config {
	cfg := &Config{}
	cfg.userAgentFromEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) userAgentFromEnv() {
	if strings.TrimSpace(c.Edgar.UserAgent) == "" {
		c.Edgar.UserAgent = strings.TrimSpace(os.Getenv(EnvUserAgent))
	}
}

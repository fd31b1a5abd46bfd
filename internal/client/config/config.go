// Package config handles configuration for the TaskForge CLI.
package config

import "time"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - APIBaseURL: base URL of the TaskForge API.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

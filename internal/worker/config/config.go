// Package config handles configuration for the worker component.
package config

import "time"

// Config holds runtime settings for the TaskForge worker.
//
// Fields:
//   - APIBaseURL: base URL of the TaskForge API.
//   - ServiceUser / ServicePassword: service-account credentials the worker
//     logs in with.
//   - PollInterval: how often a processing run starts.
//   - MaxAttempts: retry budget for individual API calls.
//   - Once: run a single pass and exit (for cron-style deployment).
type Config struct {
	APIBaseURL      string
	ServiceUser     string
	ServicePassword string
	PollInterval    time.Duration
	MaxAttempts     int
	Once            bool
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.ServiceUser = "worker"
	c.ServicePassword = "worker"
	c.PollInterval = 5 * time.Minute
	c.MaxAttempts = 3
	c.Once = false
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

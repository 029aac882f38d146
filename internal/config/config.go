// Package config holds runtime settings shared by the Gistly main application
// and the share-extension binary.
package config

import "time"

// Config holds runtime settings for Gistly processes.
//
// Fields:
//   - ServerBaseURL: base URL of the backend API, e.g. "https://api.gistly.app".
//   - SharedDir: process-shared directory holding the queue database and
//     binary attachments; both processes must point at the same path.
//   - RequestTimeout: per-attempt HTTP timeout.
//   - MaxRetries: additional attempts after the first failed one.
//   - RetryDelay: fixed pause between attempts (not exponential).
type Config struct {
	ServerBaseURL  string
	SharedDir      string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.SharedDir = "shared"
	c.RequestTimeout = 10 * time.Second
	c.MaxRetries = 2
	c.RetryDelay = 1 * time.Second
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

// Package config handles configuration for the Gowear terminal client,
// including defaults, JSON overlay, and command-line flags. Later sources
// take precedence over earlier ones.
package config

import "time"

// Config holds runtime settings for the Gowear CLI.
//
// Fields:
//   - APIBaseURL: base URL of the Gowear HTTP API.
//   - RefreshInterval: how often the session manager renews the access token.
//   - DatabaseDSN: path of the local SQLite metadata store.
type Config struct {
	APIBaseURL      string
	RefreshInterval time.Duration
	DatabaseDSN     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RefreshInterval = 10 * time.Minute
	c.DatabaseDSN = "gowear.db"
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

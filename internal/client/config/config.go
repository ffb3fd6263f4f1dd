// Package config loads the runtime settings of the MDD client.
package config

// Config holds runtime settings for the MDD terminal client.
//
// Fields:
//   - ServerBaseURL: scheme://host:port of the backend API.
//   - CachePath: path of the local SQLite database holding the credential
//     slot and cached state.
type Config struct {
	ServerBaseURL string
	CachePath     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.CachePath = "mdd.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

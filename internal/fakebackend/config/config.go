// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: bind address for the HTTP API.
//   - SecretKey: HMAC secret for signing access tokens (HS256).
//   - TokenValidity: lifetime of the token printed at startup.
//   - Subject: user the startup token is issued for.
//   - InitialBalance: token balance the subject starts with.
//   - ImportDelay: artificial latency added to every import.
//   - LogLevel: slog level name.
type Config struct {
	Addr           string
	SecretKey      string
	TokenValidity  time.Duration
	Subject        string
	InitialBalance int
	ImportDelay    time.Duration
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.TokenValidity = 24 * time.Hour
	c.Subject = "dev"
	c.InitialBalance = 10
	c.ImportDelay = 3 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the recipekeeper CLI.
//
// RequestTimeout is deliberately long: video imports are transcribed and
// summarised server-side within a single request.
type Config struct {
	BackendURL     string
	RequestTimeout time.Duration
	CacheDir       string
	LogLevel       string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	MaxImageBytes  int
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 5 * time.Minute
	c.CacheDir = "recipecache"
	c.LogLevel = "info"
	c.S3Bucket = "imports"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.MaxImageBytes = 1 << 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags. Later sources take precedence.
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

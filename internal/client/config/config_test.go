package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.BackendURL)
	assert.Equal(t, 5*time.Minute, c.RequestTimeout)
	assert.Equal(t, "recipecache", c.CacheDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 1<<20, c.MaxImageBytes)
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	cfg := load(nil)

	var want Config
	want.LoadDefaults()
	require.NotNil(t, cfg)
	assert.Equal(t, want, *cfg)
}

func TestLoad_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"backend_url":     "https://json.example",
		"request_timeout": "2m",
		"log_level":       "warn",
	})

	cfg := load([]string{"-c", path, "-a", "https://flag.example"})

	assert.Equal(t, "https://flag.example", cfg.BackendURL)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

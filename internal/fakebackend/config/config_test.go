package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenValidity)
	assert.Equal(t, "dev", c.Subject)
	assert.Equal(t, 10, c.InitialBalance)
	assert.Equal(t, 3*time.Second, c.ImportDelay)
	assert.Equal(t, "info", c.LogLevel)
}

func TestParseFlags(t *testing.T) {
	c := defaults()
	parseFlags(c, []string{"-a", ":9090", "-t", "5", "-u", "alice", "-b", "0", "-w", "250", "-x", "ignored"})

	want := defaults()
	want.Addr = ":9090"
	want.TokenValidity = 5 * time.Minute
	want.Subject = "alice"
	want.InitialBalance = 0
	want.ImportDelay = 250 * time.Millisecond

	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseFlags_BadValuePanics(t *testing.T) {
	require.Panics(t, func() { parseFlags(defaults(), []string{"-b", "many"}) })
}

func TestLoad_JSONThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"addr": ":7000",
		"secret_key": "s3",
		"import_delay": "1s",
		"initial_balance": 2,
		"log_level": "debug"
	}`), 0o600))

	c := load([]string{"-c", path, "-a", ":7001"})

	assert.Equal(t, ":7001", c.Addr)
	assert.Equal(t, "s3", c.SecretKey)
	assert.Equal(t, time.Second, c.ImportDelay)
	assert.Equal(t, 2, c.InitialBalance)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "dev", c.Subject)
}

func TestParseJson_MissingFilePanics(t *testing.T) {
	require.Panics(t, func() { parseJson(defaults(), []string{"-c", filepath.Join(t.TempDir(), "nope.json")}) })
}

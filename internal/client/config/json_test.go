package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("overlays present fields only", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"backend_url":     "https://api.example",
			"request_timeout": "90s",
			"s3_bucket":       "tmp-uploads",
			"max_image_bytes": 2048,
		})

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "https://api.example", cfg.BackendURL)
		assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "tmp-uploads", cfg.S3Bucket)
		assert.Equal(t, 2048, cfg.MaxImageBytes)
		assert.Equal(t, "us-east-1", cfg.S3Region, "absent field keeps default")
	})

	t.Run("integer nanoseconds", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"request_timeout": int64(3 * time.Second)})

		cfg := &Config{}
		parseJson(cfg, []string{"-c", path})
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	})

	t.Run("no config flag leaves cfg untouched", func(t *testing.T) {
		cfg := &Config{BackendURL: "keep", RequestTimeout: 42 * time.Second}
		parseJson(cfg, []string{"-a", "other"})

		assert.Equal(t, "keep", cfg.BackendURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", "/does/not/exist.json"}) })
	})
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
	"github.com/dmitrijs2005/recipekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish "absent" from zero values.
type JsonConfig struct {
	BackendURL     *string         `json:"backend_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	CacheDir       *string         `json:"cache_dir"`
	LogLevel       *string         `json:"log_level"`
	S3Bucket       *string         `json:"s3_bucket"`
	S3Region       *string         `json:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint"`
	S3AccessKey    *string         `json:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key"`
	MaxImageBytes  *int            `json:"max_image_bytes"`
}

// parseJson overlays cfg with the JSON file named by -c/-config. Read or
// decode errors panic; the caller runs this once at startup.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BackendURL, jc.BackendURL)
	setString(&cfg.CacheDir, jc.CacheDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxImageBytes != nil {
		cfg.MaxImageBytes = *jc.MaxImageBytes
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

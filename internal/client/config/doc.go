// Package config loads runtime configuration for the recipekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the recipe backend
//	-t int      request timeout (seconds)
//	-d string   recipe cache directory
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations accept strings like "5m" or integer nanoseconds:
//
//	{
//	  "backend_url": "https://api.example.com",
//	  "request_timeout": "5m",
//	  "cache_dir": "/var/cache/recipekeeper",
//	  "log_level": "info",
//	  "s3_bucket": "imports",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000/",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "...",
//	  "max_image_bytes": 1048576
//	}
//
// Fields missing from the JSON file keep their previous value.
package config

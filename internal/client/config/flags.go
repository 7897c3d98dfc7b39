package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-t int      request timeout in seconds
//	-d string   cache directory
//	-l string   log level
//
// Only these flags are looked at (see flagx.FilterArgs); an invalid value
// panics.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "backend base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.CacheDir, "d", cfg.CacheDir, "recipe cache directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}

package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   JWT HMAC secret key
//	-t int      startup token validity, minutes
//	-u string   subject of the startup token
//	-b int      initial token balance
//	-w int      import delay, milliseconds
//	-l string   log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-u", "-b", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	validity := fs.Int("t", int(cfg.TokenValidity.Minutes()), "token validity (in minutes)")
	fs.StringVar(&cfg.Subject, "u", cfg.Subject, "token subject")
	fs.IntVar(&cfg.InitialBalance, "b", cfg.InitialBalance, "initial token balance")
	delay := fs.Int("w", int(cfg.ImportDelay.Milliseconds()), "import delay (in milliseconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenValidity = time.Duration(*validity) * time.Minute
	cfg.ImportDelay = time.Duration(*delay) * time.Millisecond
}

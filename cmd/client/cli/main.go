package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/recipekeeper/internal/client/cli"
	"github.com/dmitrijs2005/recipekeeper/internal/client/config"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}

package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/recipekeeper/internal/fakebackend"
	"github.com/dmitrijs2005/recipekeeper/internal/fakebackend/config"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app := fakebackend.NewApp(cfg, logger, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}

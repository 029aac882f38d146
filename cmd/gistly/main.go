package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gistly-app/gistly/internal/cli"
	"github.com/gistly-app/gistly/internal/config"
	"github.com/gistly-app/gistly/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}

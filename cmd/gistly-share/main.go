package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gistly-app/gistly/internal/config"
	"github.com/gistly-app/gistly/internal/logging"
	"github.com/gistly-app/gistly/internal/share"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	attachments, err := share.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := share.Run(ctx, cfg, logger, attachments); err != nil {
		log.Fatalf("%v", err)
		return
	}

}

// Package cli implements the interactive shell of the Gistly main process.
// On startup it adopts whatever the share extension queued while the main
// process was not running, then accepts commands against the backend API.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/gistly-app/gistly/internal/api"
	"github.com/gistly-app/gistly/internal/config"
	"github.com/gistly-app/gistly/internal/logging"
	"github.com/gistly-app/gistly/internal/notify"
	"github.com/gistly-app/gistly/internal/queue"
)

type App struct {
	cfg       *config.Config
	log       logging.Logger
	svc       *api.Service
	store     *queue.SQLiteStore
	consumer  *queue.Consumer
	broadcast *notify.Broadcast
	userID    string

	in  io.Reader
	out io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := queue.OpenSQLiteStore(ctx, cfg.SharedDir)
	if err != nil {
		return nil, err
	}

	exec := api.NewExecutor(cfg.ServerBaseURL, api.ExecutorConfig{
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, log)

	broadcast := notify.NewBroadcast()
	consumer := queue.NewConsumer(store, notify.Multi{notify.NewLogNotifier(log), broadcast}, log)

	return &App{
		cfg:       cfg,
		log:       log,
		svc:       api.NewService(exec),
		store:     store,
		consumer:  consumer,
		broadcast: broadcast,
		in:        os.Stdin,
		out:       os.Stdout,
	}, nil
}

// Updates returns a channel carrying batch sizes of future queue drains.
func (a *App) Updates() <-chan int {
	return a.broadcast.Subscribe()
}

func (a *App) Close() error {
	return a.store.Close()
}

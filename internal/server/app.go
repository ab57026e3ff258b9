// Package server initializes and runs the recallbox sync backend.
// It opens the database, applies migrations, starts the HTTP API and the
// tombstone purge worker, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ekoshkin/recallbox/internal/logging"
	"github.com/ekoshkin/recallbox/internal/server/config"
	"github.com/ekoshkin/recallbox/internal/server/db"
	"github.com/ekoshkin/recallbox/internal/server/httpapi"
	"github.com/ekoshkin/recallbox/internal/server/purge"
	"github.com/ekoshkin/recallbox/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager *db.PostgresManager
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	manager, err := db.NewPostgresManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{config: c, logger: logger, manager: manager}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: httpapi.NewRouter(services.NewRecordService(app.manager.Conn(), app.manager.Records()), app.logger),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		purge.NewWorker(app.manager.Records(), app.config.PurgeInterval, app.logger).Run(ctx)
	}()

	wg.Wait()

	if err := app.manager.Conn().Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"campusfood/infrastructure/outbox"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// App runs the HTTP server and, when configured, the outbox relay in-process.
type App struct {
	server          *http.Server
	worker          *outbox.Worker
	shutdownTimeout time.Duration
}

func NewApp(server *http.Server, worker *outbox.Worker, shutdownTimeout time.Duration) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &App{server: server, worker: worker, shutdownTimeout: shutdownTimeout}
}

// Run blocks until ctx is cancelled or the server fails, then drains
// in-flight requests for at most the shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server", zap.Duration("timeout", a.shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error { return a.worker.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

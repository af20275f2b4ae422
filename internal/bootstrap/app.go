package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/linwei/smartliving/internal/domain/telemetry"
	"github.com/linwei/smartliving/internal/infra/config"
)

// App encapsulates the HTTP server and telemetry poller lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	poller *telemetry.Poller
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, poller *telemetry.Poller) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, poller: poller}
}

// Run starts the poller and HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.poller.Start(ctx)
	defer a.poller.Stop()

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

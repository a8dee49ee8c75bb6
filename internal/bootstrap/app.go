package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
	"github.com/yanqian/glow-advisor/internal/infra/config"
	"github.com/yanqian/glow-advisor/internal/infra/jobqueue"
)

// Warmer prepares the analysis model before it can serve requests.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// App encapsulates the HTTP server lifecycle and the analysis worker.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	model  Warmer
	queue  jobqueue.HandlerQueue
	jobs   analysisjob.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, model Warmer, queue jobqueue.HandlerQueue, jobs analysisjob.Service) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With("component", "bootstrap"),
		server: server,
		model:  model,
		queue:  queue,
		jobs:   jobs,
	}
}

// Run starts the HTTP server and blocks until shutdown. The model warms up
// in the background; /healthz reports readiness until it finishes.
func (a *App) Run(ctx context.Context) error {
	go func() {
		if err := a.model.Warmup(ctx); err != nil {
			a.logger.Warn("model warmup aborted", "error", err)
		}
	}()

	a.queue.SetHandler(a.jobs.Handle)
	defer a.queue.Close()

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

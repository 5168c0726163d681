// Package api is the HTTP control surface for sync runs.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webinar_sync/internal/domain"
)

const requestTimeout = 30 * time.Second

// Controller starts and steers runs. Runs launched through it outlive the
// request that created them.
type Controller interface {
	Launch(ctx context.Context, connectionID string, window domain.SyncWindow) (*domain.SyncRun, error)
	LaunchResume(ctx context.Context, runID string) (*domain.SyncRun, error)
	Stop(ctx context.Context, runID string) error
	Active(runID string) bool
}

type RunReader interface {
	Get(ctx context.Context, runID string) (*domain.SyncRun, error)
}

// WindowFunc returns the default sync window for a run started at now.
type WindowFunc func(now time.Time) (time.Time, time.Time)

type Handler struct {
	// base bounds launched runs; it is cancelled on shutdown.
	base    context.Context
	control Controller
	runs    RunReader
	window  WindowFunc
	logger  *slog.Logger
	now     func() time.Time
}

func NewHandler(base context.Context, control Controller, runs RunReader, window WindowFunc, logger *slog.Logger) *Handler {
	return &Handler{
		base:    base,
		control: control,
		runs:    runs,
		window:  window,
		logger:  logger.With("component", "api"),
		now:     time.Now,
	}
}

// Routes builds the router with every endpoint mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/connections/{connectionID}/syncs", handleError(h.logger, h.startSync))
		r.Route("/syncs/{runID}", func(r chi.Router) {
			r.Get("/", handleError(h.logger, h.getSync))
			r.Post("/resume", handleError(h.logger, h.resumeSync))
			r.Post("/stop", handleError(h.logger, h.stopSync))
		})
	})

	return r
}

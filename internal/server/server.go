// Package server exposes the planner over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rrt-planner/planner"
)

// Options configures the handler
type Options struct {
	Logger *zap.SugaredLogger

	// Registry receives the plan metrics; nil creates a private registry
	Registry *prometheus.Registry

	// Defaults fill in parameters a request leaves out
	Defaults planner.Params

	// MaxTimeout caps the per-request planning deadline; zero means no cap
	MaxTimeout time.Duration
}

// Server handles plan and smooth requests
type Server struct {
	logger     *zap.SugaredLogger
	metrics    *metrics
	defaults   planner.Params
	maxTimeout time.Duration
}

// NewHandler creates the HTTP handler with all routes and middleware
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	defaults := opts.Defaults
	if defaults == (planner.Params{}) {
		defaults = planner.DefaultParams()
	}

	s := &Server{
		logger:     logger,
		metrics:    newMetrics(registry),
		defaults:   defaults,
		maxTimeout: opts.MaxTimeout,
	}

	r := chi.NewRouter()
	r.Use(requestID, loggingMiddleware(logger), corsMiddleware)

	r.Get("/health", s.health)
	r.Post("/plan", s.plan)
	r.Post("/smooth", s.smooth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

// Package api wires the validation API router.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/api/handlers"
	"github.com/drfirst/go-clinicaldoc/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds what the router needs from its host
type RouterConfig struct {
	ServiceName string
	Version     string
	// APIKeys maps accepted keys to client names; empty disables auth
	APIKeys map[string]string
	// Metrics serves /metrics when set
	Metrics http.Handler
	// Ready reports whether the service can take traffic; nil means always
	Ready func(ctx context.Context) error
	// RequestTimeout bounds a single request
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP router for the validation API
func NewRouter(cfg RouterConfig, v handlers.Validator, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	documents := handlers.NewDocumentHandler(v, logger)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	// No auth on probes and metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","service":%q,"version":%q}`, cfg.ServiceName, cfg.Version)
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKeys))
		r.Mount("/", documents.Routes())
	})

	return r
}

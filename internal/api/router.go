// Package api provides the HTTP API for gridfix.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gridfix/gridfix/internal/api/handler"
	"github.com/gridfix/gridfix/internal/api/middleware"
	"github.com/gridfix/gridfix/internal/converter"
	"github.com/gridfix/gridfix/internal/history"
	"github.com/gridfix/gridfix/internal/telemetry"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	ConverterService *converter.Service
	HistoryService   *history.Service
	Metrics          *telemetry.ConversionMetrics
	ReadyChecks      map[string]handler.ReadyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "gridfix-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction

	convertHandler := handler.NewConvertHandler(cfg.ConverterService, cfg.HistoryService, cfg.Metrics, cfg.Logger)
	distanceHandler := handler.NewDistanceHandler(cfg.ConverterService)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ConverterService, cfg.ReadyChecks)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 120 req/min
	batchRateLimit := middleware.RateLimitByIP(middleware.BatchRateLimit)       // 20 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public, no rate limit)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Conversion endpoints
		r.With(standardRateLimit).Post("/convert", convertHandler.Convert)
		r.With(batchRateLimit).Post("/convert:batch", convertHandler.ConvertBatch)
		r.With(standardRateLimit).Post("/detect", convertHandler.Detect)
		r.With(standardRateLimit).Post("/distance", distanceHandler.Distance)

		// History endpoints (only mounted when history is configured)
		if cfg.HistoryService != nil {
			historyHandler := handler.NewHistoryHandler(cfg.HistoryService)
			r.Route("/history", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", historyHandler.List)
				r.Route("/{recordId}", func(r chi.Router) {
					r.Get("/", historyHandler.Get)
					r.Delete("/", historyHandler.Delete)
				})
			})
		}
	})

	return r
}

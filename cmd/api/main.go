// Package main provides the entrypoint for the gridfix API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gridfix/gridfix/internal/api"
	"github.com/gridfix/gridfix/internal/api/handler"
	"github.com/gridfix/gridfix/internal/converter"
	"github.com/gridfix/gridfix/internal/database"
	"github.com/gridfix/gridfix/internal/history"
	"github.com/gridfix/gridfix/internal/telemetry"
	"github.com/gridfix/gridfix/internal/what3words"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "gridfix-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting gridfix API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := telemetry.NewConversionMetrics(tp.Meter)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database when configured. Without one, history falls back
	// to the in-memory repository.
	var pool *pgxpool.Pool
	if os.Getenv("DB_DISABLED") != "true" {
		dbConfig := database.ConfigFromEnv()
		pool, err = database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	} else {
		log.Warn().Msg("database disabled - conversion history will not survive restarts")
	}

	// Initialize the what3words resolver when an API key is configured
	var resolver converter.Resolver
	if apiKey := os.Getenv("W3W_API_KEY"); apiKey != "" {
		resolver = what3words.NewClient(what3words.ClientConfig{APIKey: apiKey})
		log.Info().Msg("what3words resolver initialized")
	} else {
		log.Warn().Msg("W3W_API_KEY not set - three-word addresses will pass through unresolved")
	}

	// Initialize the conversion service
	converterService := converter.New(converter.Config{
		Logger:   log,
		Resolver: resolver,
	})
	defer converterService.Close()
	log.Info().Msg("converter service initialized")

	// Initialize the history service
	var historyRepo history.Repository
	if pool != nil {
		historyRepo = history.NewPostgresRepository(pool)
	} else {
		historyRepo = history.NewInMemoryRepository()
	}
	historyService := history.NewService(history.ServiceConfig{
		Repository: historyRepo,
		Logger:     log,
	})
	log.Info().Msg("history service initialized")

	// Start the history pruner
	prunerCtx, stopPruner := context.WithCancel(ctx)
	defer stopPruner()
	go historyService.RunPruner(prunerCtx)

	// Readiness checks
	readyChecks := map[string]handler.ReadyCheck{}
	if pool != nil {
		readyChecks["postgres"] = func(r *http.Request) error {
			return pool.Ping(r.Context())
		}
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		ConverterService: converterService,
		HistoryService:   historyService,
		Metrics:          metrics,
		ReadyChecks:      readyChecks,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

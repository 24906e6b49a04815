package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"archiroutes.org/internal/app"
	"archiroutes.org/internal/appconf"
	"archiroutes.org/internal/catalogdb"
	"archiroutes.org/internal/clock"
	"archiroutes.org/internal/dedupe"
	"archiroutes.org/internal/directions"
	"archiroutes.org/internal/logging"
	"archiroutes.org/internal/metrics"
	"archiroutes.org/internal/restapi"
	"archiroutes.org/internal/routing"
)

// ParseAPIKeys splits a comma-separated string of API keys and trims whitespace from each key.
// Returns an empty slice if the input is empty.
func ParseAPIKeys(apiKeysFlag string) []string {
	if apiKeysFlag == "" {
		return []string{}
	}

	keys := strings.Split(apiKeysFlag, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return keys
}

// BuildApplication creates and initializes the Application with all dependencies.
// This opens the catalog database, builds the spatial index over active
// buildings, and wires the duplicate-check and routing services. The routing
// provider is only attached when an API key is configured and the provider is
// not disabled.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	catalog, err := catalogdb.NewClient(catalogdb.NewConfig(cfg.DataPath, cfg.Env, cfg.Verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	m := metrics.New()

	index := dedupe.NewSpatialIndex()
	if err := index.Rebuild(context.Background(), catalog.Queries); err != nil {
		logging.SafeCloseWithLogging(catalog, logger, "catalog")
		return nil, fmt.Errorf("failed to build spatial index: %w", err)
	}
	logger.Info("spatial index built", "buildings", index.Len())

	providerTimeout := routing.DefaultProviderTimeout
	if cfg.Directions.TimeoutSeconds > 0 {
		providerTimeout = time.Duration(cfg.Directions.TimeoutSeconds) * time.Second
	}

	var provider routing.Backend
	var optimizer routing.Optimizer
	if !cfg.Directions.Disabled && cfg.Directions.APIKey != "" {
		client := directions.NewClient(cfg.Directions.BaseURL, cfg.Directions.APIKey, providerTimeout)
		provider = client
		optimizer = client
		logger.Info("directions provider enabled", "baseURL", cfg.Directions.BaseURL)
	} else {
		logger.Info("directions provider disabled, using straight-line routing")
	}

	coreApp := &app.Application{
		Config:       cfg,
		Logger:       logger,
		Clock:        clock.SystemClock{},
		Catalog:      catalog,
		Metrics:      m,
		Dedupe:       dedupe.NewService(catalog.Queries, logger, m),
		SpatialIndex: index,
		Routing:      routing.NewService(provider, optimizer, logger, m, providerTimeout),
	}

	return coreApp, nil
}

// CreateServer creates and configures the HTTP server with routes and middleware.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	mux := http.NewServeMux()
	api.SetRoutes(mux)

	// Wrap with security middleware
	secureHandler := api.WithSecurityHeaders(mux)

	// Tag and log every request (outermost)
	requestLogger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)
	requestLogMiddleware := restapi.NewRequestLoggingMiddleware(requestLogger)
	handler := restapi.RequestIDMiddleware(requestLogMiddleware(secureHandler))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}

	return srv, api
}

// Run manages the server lifecycle with graceful shutdown.
// Starts the server in a goroutine, waits for shutdown signals (SIGINT, SIGTERM),
// and performs graceful shutdown with a 30-second timeout.
// Returns an error if the server fails to start or shutdown fails.
func Run(srv *http.Server, api *restapi.RestAPI, coreApp *app.Application) error {
	logger := coreApp.Logger
	logger.Info("starting server", "addr", srv.Addr)

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Channel to capture server errors
	serverErrors := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Wait for either shutdown signal or server error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server...")
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Stop background resources and close the catalog
	api.Shutdown()
	if coreApp.Catalog != nil {
		logging.SafeCloseWithLogging(coreApp.Catalog, logger, "catalog")
	}

	logger.Info("server exited")
	return nil
}

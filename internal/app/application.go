package app

import (
	"log/slog"
	"net/http"

	"archiroutes.org/internal/appconf"
	"archiroutes.org/internal/catalogdb"
	"archiroutes.org/internal/clock"
	"archiroutes.org/internal/dedupe"
	"archiroutes.org/internal/metrics"
	"archiroutes.org/internal/routing"
)

// Application bundles the shared dependencies handed to the HTTP layer.
type Application struct {
	Config       appconf.Config
	Logger       *slog.Logger
	Clock        clock.Clock
	Catalog      *catalogdb.Client
	Metrics      *metrics.Metrics
	Dedupe       *dedupe.Service
	SpatialIndex *dedupe.SpatialIndex
	Routing      *routing.Service
}

// IsInvalidAPIKey reports whether the key fails to match any configured key.
// Keys are compared exactly; an empty key is always invalid.
func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	for _, validKey := range app.Config.ApiKeys {
		if key == validKey {
			return false
		}
	}
	return true
}

// RequestHasInvalidAPIKey extracts the "key" query parameter and validates it.
func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(r.URL.Query().Get("key"))
}

package restapi

import (
	"net/http"
)

// catalogCacheSeconds is the max-age for the read-only catalog endpoints.
const catalogCacheSeconds = 30

// rateLimitAndValidateAPIKey combines rate limiting, API key validation, and compression
func rateLimitAndValidateAPIKey(api *RestAPI, finalHandler http.HandlerFunc) http.Handler {
	// Apply compression first (innermost)
	compressedHandler := CompressionMiddleware(finalHandler)

	// Then rate limiting - use the shared rate limiter instance
	var rateLimitedHandler http.Handler
	if api.rateLimiter != nil {
		rateLimitedHandler = api.rateLimiter.Handler()(compressedHandler)
	} else {
		// Fallback for tests that don't use NewRestAPI constructor
		rateLimitedHandler = compressedHandler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First validate API key
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		// Then apply rate limiting and compression
		rateLimitedHandler.ServeHTTP(w, r)
	})
}

// SetRoutes registers all API endpoints with compression applied per route
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	// Health check and metrics - no authentication required
	mux.HandleFunc("GET /healthz", api.healthHandler)
	mux.Handle("GET /metrics", api.Metrics.Handler())

	mux.Handle("GET /api/archiroutes/current-time.json", rateLimitAndValidateAPIKey(api, api.currentTimeHandler))
	mux.Handle("GET /api/archiroutes/duplicate-check.json", rateLimitAndValidateAPIKey(api, api.duplicateCheckHandler))

	// Catalog reads tolerate briefly stale answers; checks must not
	mux.Handle("GET /api/archiroutes/building-search.json", CacheControlMiddleware(catalogCacheSeconds, rateLimitAndValidateAPIKey(api, api.buildingSearchHandler)))
	mux.Handle("GET /api/archiroutes/buildings-nearby.json", CacheControlMiddleware(catalogCacheSeconds, rateLimitAndValidateAPIKey(api, api.buildingsNearbyHandler)))

	mux.Handle("POST /api/archiroutes/route.json", rateLimitAndValidateAPIKey(api, api.routeHandler))
	mux.Handle("POST /api/archiroutes/route-optimize.json", rateLimitAndValidateAPIKey(api, api.routeOptimizeHandler))
}

// SetupAPIRoutes creates and configures the API router with all middleware applied globally
func (api *RestAPI) SetupAPIRoutes() http.Handler {
	mux := http.NewServeMux()

	api.SetRoutes(mux)

	return CompressionMiddleware(mux)
}

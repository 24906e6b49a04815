package restapi

import (
	"sync"
	"time"

	"archiroutes.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter  *RateLimitMiddleware
	shutdownOnce sync.Once
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Shutdown stops background resources held by the API. Safe to call more
// than once.
func (api *RestAPI) Shutdown() {
	api.shutdownOnce.Do(func() {
		if api.rateLimiter != nil {
			api.rateLimiter.Stop()
		}
	})
}

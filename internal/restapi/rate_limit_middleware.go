package restapi

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces a per-API-key request rate. Keys that go
// quiet are evicted by a background cleanup loop.
type RateLimitMiddleware struct {
	mu       sync.Mutex
	limiters map[string]*keyLimiter
	limit    rate.Limit
	burst    int
	stopOnce sync.Once
	stopCh   chan struct{}
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows limit requests per window for each API key.
func NewRateLimitMiddleware(limit int, window time.Duration) *RateLimitMiddleware {
	if limit <= 0 {
		limit = 1
	}
	m := &RateLimitMiddleware{
		limiters: make(map[string]*keyLimiter),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		stopCh:   make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Handler returns the middleware function wrapping the next handler.
func (m *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Query().Get("key")
			if !m.allow(key) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Stop terminates the cleanup loop. Safe to call more than once.
func (m *RateLimitMiddleware) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

func (m *RateLimitMiddleware) allow(key string) bool {
	m.mu.Lock()
	kl, ok := m.limiters[key]
	if !ok {
		kl = &keyLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = kl
	}
	kl.lastSeen = time.Now()
	m.mu.Unlock()

	return kl.limiter.Allow()
}

func (m *RateLimitMiddleware) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.mu.Lock()
			for key, kl := range m.limiters {
				if time.Since(kl.lastSeen) > 3*time.Minute {
					delete(m.limiters, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

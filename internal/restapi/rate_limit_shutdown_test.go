package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_Shutdown(t *testing.T) {
	middleware := NewRateLimitMiddleware(10, time.Second)
	defer middleware.Stop()

	assert.NotNil(t, middleware)
	assert.NotNil(t, middleware.Handler())

	done := make(chan struct{})
	go func() {
		middleware.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown took too long")
	}
}

func TestRateLimitMiddleware_ShutdownIdempotent(t *testing.T) {
	middleware := NewRateLimitMiddleware(10, time.Second)

	middleware.Stop()
	middleware.Stop()
	middleware.Stop()
}

func TestRateLimitMiddleware_EnforcesLimit(t *testing.T) {
	middleware := NewRateLimitMiddleware(2, time.Second)
	defer middleware.Stop()

	handler := middleware.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/archiroutes/current-time.json?key=TEST", nil)
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRateLimitMiddleware_KeysAreIndependent(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Second)
	defer middleware.Stop()

	handler := middleware.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recA := httptest.NewRecorder()
	handler.ServeHTTP(recA, httptest.NewRequest("GET", "/?key=alpha", nil))
	assert.Equal(t, http.StatusOK, recA.Code)

	// alpha is exhausted, beta is not
	recA2 := httptest.NewRecorder()
	handler.ServeHTTP(recA2, httptest.NewRequest("GET", "/?key=alpha", nil))
	assert.Equal(t, http.StatusTooManyRequests, recA2.Code)

	recB := httptest.NewRecorder()
	handler.ServeHTTP(recB, httptest.NewRequest("GET", "/?key=beta", nil))
	assert.Equal(t, http.StatusOK, recB.Code)
}

func TestRestAPI_Shutdown(t *testing.T) {
	api := createTestApi(t)
	defer api.Shutdown()

	done := make(chan struct{})
	go func() {
		api.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("API shutdown took too long")
	}
}

func TestRestAPI_ShutdownIdempotent(t *testing.T) {
	api := createTestApi(t)

	api.Shutdown()
	api.Shutdown()
	api.Shutdown()
}

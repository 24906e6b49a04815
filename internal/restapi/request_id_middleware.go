package restapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is a private type for request-scoped values.
type contextKey string

// RequestIDKey carries the request ID assigned by RequestIDMiddleware.
const RequestIDKey contextKey = "archiroutes_request_id"

// RequestIDMiddleware tags every request with an ID for log correlation. An
// inbound X-Request-ID is trusted and passed through; otherwise a UUID is
// generated. The ID is echoed in the response header and stored on the
// request context under RequestIDKey.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	wrap "github.com/martinmohammed/auth-service/pkg/logger/wrapper"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns every request a correlation ID, reusing the client's
// X-Request-Id header when present, and carries it through the log context.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := wrap.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

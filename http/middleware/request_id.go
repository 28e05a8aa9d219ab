package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/compass"
)

// RequestIDHeader echoes the ID of a request back to the client.
const RequestIDHeader = "X-Request-ID"

// RequestID adds a uuid to the request context under compass.RequestIDKey
// and sets it on the response's headers.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)

			ctx := context.WithValue(r.Context(), compass.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

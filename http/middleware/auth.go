package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/auth"
	"github.com/xy-planning-network/compass/logger"
)

// An AuthFactory builds the *auth.Client serving a single visitor's request.
type AuthFactory func(w http.ResponseWriter, r *http.Request) (*auth.Client, error)

// InjectAuth stores the *auth.Client built by factory in *http.Request.Context
// under compass.AuthKey.
//
// The client listens for auth state changes until the request completes.
//
// If factory errors, the request continues without a client,
// and routes behind Guard deny it.
//
// If factory is nil, NoopAdapter returns and this middleware does nothing.
func InjectAuth(factory AuthFactory, l logger.Logger) Adapter {
	if factory == nil {
		return NoopAdapter
	}

	if l == nil {
		l = logger.NewLogger()
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := factory(w, r)
			if err != nil {
				l.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
				h.ServeHTTP(w, r)
				return
			}

			sub := c.Listen(r.Context())
			defer sub.Unsubscribe()

			ctx := context.WithValue(r.Context(), compass.AuthKey, c)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// AuthClient retrieves the *auth.Client InjectAuth stored in ctx.
func AuthClient(ctx context.Context) (*auth.Client, bool) {
	c, ok := ctx.Value(compass.AuthKey).(*auth.Client)
	return c, ok && c != nil
}

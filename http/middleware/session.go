package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/http/session"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under compass.SessionKey.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// NOTE(dlk): a session that fails decoding is replaced by a new one.
			s, _ := store.GetSession(r)
			ctx := context.WithValue(r.Context(), compass.SessionKey, s)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

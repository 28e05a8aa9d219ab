package middleware

import (
	"net/http"
	"strings"
)

// An Adapter allows chaining middlewares together.
type Adapter func(http.Handler) http.Handler

// NoopAdapter passes the request on to the next handler untouched.
func NoopAdapter(h http.Handler) http.Handler { return h }

// Chain glues the set of adapters to the handler.
func Chain(handler http.Handler, adapters ...Adapter) http.Handler {
	//NOTE: Loop in reverse to preserve middleware order
	for i := len(adapters) - 1; i >= 0; i-- {
		handler = adapters[i](handler)
	}

	return handler
}

// wantsJSON asserts whether the request prefers JSON over rendered HTML.
func wantsJSON(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept") {
		if strings.Contains(v, "application/json") {
			return true
		}
	}

	return false
}

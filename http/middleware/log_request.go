package middleware

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/logger"
)

// maskedParams are the query params whose values LogRequest scrubs.
var maskedParams = []string{"access_token", "password", "refresh_token"}

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - access_token
// - password
// - refresh_token
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			for _, k := range maskedParams {
				if q.Has(k) {
					q.Set(k, logger.MaskVal)
				}
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(compass.IpAddrKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			var lc *logger.LogContext
			if id, ok := r.Context().Value(compass.RequestIDKey).(string); ok {
				lc = &logger.LogContext{Data: map[string]any{"request_id": id}}
			}

			ls.Info(strings.Join(strs, " "), lc)
			h.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/compass"
)

// ReportPanic recovers and reports panics to Sentry.
//
// In development, panics are left alone.
func ReportPanic(env compass.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(handler http.Handler) http.Handler {
		return sh.Handle(handler)
	}
}

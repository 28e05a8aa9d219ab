package handler

import (
	"net/url"

	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/profile"
)

// A HandlerOptFn configures a *Handler.
type HandlerOptFn func(*Handler)

// WithLogger sets the logger.Logger the *Handler reports failures with.
func WithLogger(l logger.Logger) HandlerOptFn {
	return func(h *Handler) {
		h.log = l
	}
}

// WithProfiles sets the profile.Store questionnaire answers are saved to.
func WithProfiles(s profile.Store) HandlerOptFn {
	return func(h *Handler) {
		h.profiles = s
	}
}

// WithWorker sets the base URL API calls are forwarded to.
//
// If u is nil, API calls other than the health check are not routed.
func WithWorker(u *url.URL) HandlerOptFn {
	return func(h *Handler) {
		h.worker = u
	}
}

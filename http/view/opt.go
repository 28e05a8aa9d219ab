package view

import (
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

// WithProfiles sets the profile.Store the questionnaire is filled from.
func WithProfiles(s profile.Store) HandlerOptFn {
	return func(h *Handler) {
		h.profiles = s
	}
}

package ranger

import (
	"context"
	"errors"
	"net/http"

	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/logger"
	"gorm.io/gorm"
)

// A RangerOption configures a *Ranger under construction.
type RangerOption func(rng *Ranger) error

// WithContext sets the context.Context the web server bases requests on.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) error {
		if ctx == nil {
			return errors.New("nil context")
		}

		rng.ctx = ctx
		return nil
	}
}

// WithDB exposes the provided *gorm.DB to compass.
//
// WithDB assumes a connection has already been established and migrated.
func WithDB(db *gorm.DB) RangerOption {
	return func(rng *Ranger) error {
		rng.db = db
		return nil
	}
}

// WithLogger exposes the provided logger.Logger to compass.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) error {
		rng.l = l
		return nil
	}
}

// WithProvider sets how the identity.Provider of each visitor is constructed.
func WithProvider(fn ProviderFn) RangerOption {
	return func(rng *Ranger) error {
		rng.provider = fn
		return nil
	}
}

// WithServer sets the *http.Server Guide runs.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) error {
		rng.srv = s
		return nil
	}
}

// WithSessionStore exposes the session.SessionStorer to compass.
func WithSessionStore(store session.SessionStorer) RangerOption {
	return func(rng *Ranger) error {
		rng.sessions = store
		return nil
	}
}

// WithTokenStore sets where each visitor's tokens are kept.
func WithTokenStore(fn TokenStoreFn) RangerOption {
	return func(rng *Ranger) error {
		rng.tokens = fn
		return nil
	}
}

package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/logger"
)

const (
	// LandingPath is where Guard sends visitors without a session.
	LandingPath = "/"

	// QuestionnairePath is where Guard sends visitors who have not completed the questionnaire.
	QuestionnairePath = "/questionnaire"
)

// Guard gates a route on the visitor having an authenticated session.
//
// Guard looks up the session through the *auth.Client InjectAuth set exactly once per request.
// When the lookup errors, Guard logs the failure and treats the visitor as signed out.
//
// A visitor without a session is redirected to LandingPath,
// or receives a 401 when the request accepts JSON.
//
// When main is true, the route is the main view and further requires the questionnaire be completed,
// otherwise the visitor is redirected to QuestionnairePath.
//
// An allowed request carries the session's user in its context under compass.CurrentUserKey.
func Guard(d *resp.Responder, l logger.Logger, main bool) Adapter {
	if l == nil {
		l = logger.NewLogger()
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := AuthClient(r.Context())
			if !ok {
				err := fmt.Errorf("%w: no auth client found with %s", compass.ErrNotExist, compass.AuthKey)
				l.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
				deny(w, r, d, session.Flash{Class: session.FlashWarning, Msg: session.SessionCheckMsg})
				return
			}

			s, err := c.Session(r.Context())
			if err != nil {
				l.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
				deny(w, r, d, session.Flash{Class: session.FlashWarning, Msg: session.SessionCheckMsg})
				return
			}

			if s == nil {
				deny(w, r, d, session.Flash{Class: session.FlashInfo, Msg: session.SignInRequiredMsg})
				return
			}

			if main {
				done, err := c.Tokens().QuestionnaireCompleted(r.Context())
				if err != nil {
					l.Warn(err.Error(), &logger.LogContext{Error: err, Request: r})
				}

				if !done {
					redirect(w, r, d, QuestionnairePath, http.StatusForbidden)
					return
				}
			}

			w.Header().Set("Cache-Control", "no-store")
			ctx := context.WithValue(r.Context(), compass.CurrentUserKey, s.User)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// deny rejects a request lacking a session.
func deny(w http.ResponseWriter, r *http.Request, d *resp.Responder, flash session.Flash) {
	if wantsJSON(r) {
		if d == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		err := d.Json(w, r,
			resp.Code(http.StatusUnauthorized),
			resp.Data(map[string]string{"detail": "Not authenticated", "redirect": LandingPath}),
		)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
		return
	}

	if d != nil {
		// NOTE(dlk): the flash is best effort, a missing session still redirects.
		if err := d.Redirect(w, r, resp.Url(LandingPath), resp.Flash(flash)); err == nil {
			return
		}
	}

	http.Redirect(w, r, LandingPath, http.StatusFound)
}

// redirect sends the visitor to path, or describes the redirect when the request accepts JSON.
func redirect(w http.ResponseWriter, r *http.Request, d *resp.Responder, path string, jsonCode int) {
	if wantsJSON(r) && d != nil {
		if err := d.Json(w, r, resp.Code(jsonCode), resp.Data(map[string]string{"redirect": path})); err == nil {
			return
		}
	}

	if d != nil {
		if err := d.Redirect(w, r, resp.Url(path)); err == nil {
			return
		}
	}

	http.Redirect(w, r, path, http.StatusFound)
}

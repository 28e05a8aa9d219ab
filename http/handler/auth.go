package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/xy-planning-network/compass/http/middleware"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/router"
	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/http/view"
)

// NextParam names the query param of the callback URL holding where to go after signing in.
const NextParam = "next"

// Callback finishes signing in with the tokens from the URL the callback page posts in the "url" field.
//
// On success, the visitor is redirected to the URL without its fragment,
// or, when that is the callback page itself, to its "next" query param.
// On failure, the visitor is redirected to the landing page.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	c, ok := middleware.AuthClient(r.Context())
	if !ok {
		h.Redirect(w, r, resp.Url(router.LandingPath), resp.Flash(session.Flash{Class: session.FlashError, Msg: session.NoAccessMsg}))
		return
	}

	clean, ok := c.HandleOAuthCallback(r.Context(), r.PostFormValue("url"))
	if !ok {
		h.Redirect(w, r, resp.Url(router.LandingPath), resp.Flash(session.Flash{Class: session.FlashError, Msg: session.SignInFailedMsg}))
		return
	}

	h.Redirect(w, r, resp.Url(afterSignIn(clean)))
}

// afterSignIn picks a local destination out of the cleaned callback URL.
func afterSignIn(clean string) string {
	u, err := url.Parse(clean)
	if err != nil {
		return router.LandingPath
	}

	if u.Path != view.CallbackPath {
		return local(u.RequestURI())
	}

	return local(u.Query().Get(NextParam))
}

// local guards against redirecting off site, returning the landing page for anything not a local path.
func local(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return router.LandingPath
	}

	return p
}

// SignOut signs the visitor out and redirects them to the landing page.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if c, ok := middleware.AuthClient(r.Context()); ok {
		// NOTE(dlk): local credentials are cleared even when the provider errors,
		// which the client already logs.
		_ = c.SignOut(r.Context())
	}

	h.Redirect(w, r, resp.Url(router.LandingPath), resp.Flash(session.Flash{Class: session.FlashInfo, Msg: session.SignedOutMsg}))
}

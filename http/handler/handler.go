package handler

import (
	"net/http"
	"net/url"

	"github.com/xy-planning-network/compass/http/req"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/router"
	"github.com/xy-planning-network/compass/http/view"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/profile"
)

// Paths the handlers respond on.
const (
	HealthPath  = "/api/health"
	SignOutPath = "/auth/signout"
)

// A Handler handles the form posts and API calls of compass.
type Handler struct {
	*resp.Responder
	log      logger.Logger
	parser   *req.Parser
	profiles profile.Store
	worker   *url.URL
}

// New constructs a *Handler responding through d.
func New(d *resp.Responder, opts ...HandlerOptFn) *Handler {
	h := &Handler{Responder: d, parser: req.NewParser()}
	for _, opt := range opts {
		opt(h)
	}

	if h.log == nil {
		h.log = logger.NewLogger()
	}

	return h
}

// Routes are the form posts a visitor's pages submit.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Path: view.CallbackPath, Method: http.MethodPost, View: http.HandlerFunc(h.Callback)},
		{Path: SignOutPath, Name: "signout", Method: http.MethodPost, View: http.HandlerFunc(h.SignOut)},
		{
			Path:         router.QuestionnairePath,
			Method:       http.MethodPost,
			View:         http.HandlerFunc(h.SaveQuestionnaire),
			RequiresAuth: true,
		},
	}
}

// APIRoutes are the JSON endpoints, relative to "/api".
//
// Everything but the health check is forwarded to the worker.
func (h *Handler) APIRoutes() []router.Route {
	routes := []router.Route{{Path: "/health", Name: "health", View: http.HandlerFunc(h.Health)}}
	if h.worker == nil {
		return routes
	}

	for _, m := range []string{http.MethodDelete, http.MethodGet, http.MethodPost, http.MethodPut} {
		routes = append(routes, router.Route{
			Path:         "/{rest:.+}",
			Method:       m,
			View:         http.HandlerFunc(h.Proxy),
			RequiresAuth: true,
		})
	}

	return routes
}

// Health reports the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.Json(w, r, resp.Data(map[string]string{"status": "ok"}))
}

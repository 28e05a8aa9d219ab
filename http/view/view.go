package view

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/http/middleware"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/router"
	tmpl "github.com/xy-planning-network/compass/http/template"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/profile"
)

// CallbackPath is where the identity provider sends visitors back to after signing in.
const CallbackPath = "/auth/callback"

// A Handler renders the HTML pages of compass.
type Handler struct {
	*resp.Responder
	log       logger.Logger
	profiles  profile.Store
	signInURL string
}

// New constructs a *Handler rendering through d.
// signInURL is where the landing page sends visitors to sign in.
func New(d *resp.Responder, signInURL string, opts ...HandlerOptFn) *Handler {
	h := &Handler{Responder: d, signInURL: signInURL}
	for _, opt := range opts {
		opt(h)
	}

	if h.log == nil {
		h.log = logger.NewLogger()
	}

	return h
}

// Routes are the navigation table bound to the Handler's views
// plus the page finishing sign in.
func (h *Handler) Routes() []router.Route {
	return append(
		router.Table(router.Views{
			Landing:       http.HandlerFunc(h.Landing),
			Questionnaire: http.HandlerFunc(h.Questionnaire),
			Chatbot:       http.HandlerFunc(h.Chatbot),
		}),
		router.Route{Path: CallbackPath, Name: "callback", View: http.HandlerFunc(h.Callback)},
	)
}

// Callback renders the page that reads the tokens out of the URL fragment,
// which never reaches the server, and posts them to CallbackPath.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	h.Html(w, r, resp.Tmpls(tmpl.CallbackTmpl))
}

// Chatbot renders the main view.
func (h *Handler) Chatbot(w http.ResponseWriter, r *http.Request) {
	h.Html(w, r, resp.Tmpls(tmpl.ChatbotTmpl))
}

type landingData struct {
	SignedIn  bool
	SignInURL string
}

// Landing renders the landing page.
//
// Whether the visitor is signed in is read from the stored access token,
// without asking the identity provider.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	data := landingData{SignInURL: h.signInURL}
	if c, ok := middleware.AuthClient(r.Context()); ok {
		access, err := c.Tokens().AccessToken(r.Context())
		if err != nil {
			h.log.Warn(err.Error(), &logger.LogContext{Error: err, Request: r})
		}

		data.SignedIn = access != ""
	}

	h.Html(w, r, resp.Tmpls(tmpl.LandingTmpl), resp.Data(data))
}

type questionnaireData struct {
	profile.Answers
	ExpenseRanges  []profile.ExpenseRange
	IncomeRanges   []profile.IncomeRange
	RiskTolerances []profile.RiskTolerance
}

// Questionnaire renders the questionnaire,
// filled with any answers the visitor already gave.
func (h *Handler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	data := questionnaireData{
		Answers:        h.previousAnswers(r),
		ExpenseRanges:  profile.ExpenseRanges,
		IncomeRanges:   profile.IncomeRanges,
		RiskTolerances: profile.RiskTolerances,
	}

	h.Html(w, r, resp.Tmpls(tmpl.QuestionnaireTmpl), resp.Data(data))
}

// previousAnswers looks for answers in the visitor's questionnaire data,
// then in the user's saved profile.
func (h *Handler) previousAnswers(r *http.Request) profile.Answers {
	var a profile.Answers
	ctx := r.Context()
	if c, ok := middleware.AuthClient(ctx); ok {
		raw, err := c.Tokens().QuestionnaireData(ctx)
		if err == nil && raw != "" {
			if err := json.Unmarshal([]byte(raw), &a); err == nil {
				return a
			}
		}
	}

	if h.profiles == nil {
		return a
	}

	u, err := h.CurrentUser(ctx)
	if err != nil {
		return a
	}

	p, err := h.profiles.FindByUserID(ctx, u.GetID())
	if err != nil {
		if !errors.Is(err, compass.ErrNotExist) {
			h.log.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
		}
		return a
	}

	return p.Answers()
}

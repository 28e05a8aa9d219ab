package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/http/middleware"
	"github.com/xy-planning-network/compass/http/req"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/router"
	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/profile"
)

// SaveQuestionnaire saves the visitor's answers, marks the questionnaire completed,
// and sends them on to the chatbot.
//
// Answers are saved to the user's profile when a profile.Store is configured,
// and always cached as the visitor's questionnaire data.
func (h *Handler) SaveQuestionnaire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, ok := middleware.AuthClient(ctx)
	if !ok {
		h.Redirect(w, r, resp.Url(router.LandingPath), resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.SessionCheckMsg}))
		return
	}

	var a profile.Answers
	if err := h.parser.ParseForm(r, &a); err != nil {
		if errors.Is(err, compass.ErrNotValid) {
			var ve req.ValidationErrors
			if errors.As(err, &ve) {
				h.log.Info("questionnaire incomplete", &logger.LogContext{Request: r, Data: map[string]any{"fields": ve.Fields()}})
			}
			h.Redirect(w, r, resp.Url(router.QuestionnairePath), resp.Warn(session.AnswersNeededMsg))
			return
		}

		h.failTo(w, r, router.QuestionnairePath, err)
		return
	}

	if h.profiles != nil {
		u, err := h.CurrentUser(ctx)
		if err != nil {
			h.failTo(w, r, router.QuestionnairePath, err)
			return
		}

		if err := h.profiles.Upsert(ctx, profile.NewUserProfile(u.GetID(), a)); err != nil {
			h.failTo(w, r, router.QuestionnairePath, err)
			return
		}
	}

	b, err := json.Marshal(a)
	if err != nil {
		h.failTo(w, r, router.QuestionnairePath, err)
		return
	}

	if err := c.Tokens().CompleteQuestionnaire(ctx, string(b)); err != nil {
		h.failTo(w, r, router.QuestionnairePath, err)
		return
	}

	h.Redirect(w, r, resp.Url(router.ChatbotPath))
}

// failTo logs err and redirects the visitor to path with a generic error flash.
func (h *Handler) failTo(w http.ResponseWriter, r *http.Request, path string, err error) {
	// NOTE(dlk): GenericErr sets a 500, which Redirect would turn into a 307 replaying the POST.
	h.Redirect(w, r, resp.Url(path), resp.GenericErr(err), resp.Code(http.StatusSeeOther))
}

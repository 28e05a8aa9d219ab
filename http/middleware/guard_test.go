package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/auth"
	"github.com/xy-planning-network/compass/http/middleware"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/identity"
)

var errProvider = errors.New("provider down")

type guardResult struct {
	w       *httptest.ResponseRecorder
	called  bool
	user    *identity.User
	flashes []any
}

// serveGuarded runs r through the adapters a route requiring auth runs behind.
func serveGuarded(t *testing.T, c *auth.Client, main bool, r *http.Request) guardResult {
	t.Helper()

	stub := session.NewStub(nil)
	d := resp.NewResponder(resp.WithLogger(newTestLogger()))

	var res guardResult
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.called = true
		res.user, _ = r.Context().Value(compass.CurrentUserKey).(*identity.User)
	})

	adpts := []middleware.Adapter{middleware.InjectSession(stub)}
	if c != nil {
		adpts = append(adpts, middleware.InjectAuth(factoryFor(c), newTestLogger()))
	}
	adpts = append(adpts, middleware.Guard(d, newTestLogger(), main))

	res.w = httptest.NewRecorder()
	middleware.Chain(final, adpts...).ServeHTTP(res.w, r)
	res.flashes, _ = stub.Values()["_flash"].([]any)

	return res
}

func TestGuard(t *testing.T) {
	user := &identity.User{ID: "user-1", Email: "a@example.com"}
	signedIn := &identity.Session{AccessToken: "a", RefreshToken: "r", User: user}

	t.Run("Ungated-Never-Looks-Up", func(t *testing.T) {
		// Arrange
		c, _, _ := newAuth(t, new(identity.Emitter))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
		called := false

		// Act
		middleware.InjectAuth(factoryFor(c), newTestLogger())(
			http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }),
		).ServeHTTP(w, r)

		// Assert
		require.True(t, called)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("No-Session", func(t *testing.T) {
		// Arrange
		c, p, _ := newAuth(t, new(identity.Emitter))
		p.EXPECT().GetSession(gomock.Any()).Return(nil, nil).Times(1)
		r := httptest.NewRequest(http.MethodGet, "https://example.com/questionnaire", nil)

		// Act
		res := serveGuarded(t, c, false, r)

		// Assert
		require.False(t, res.called)
		require.Equal(t, http.StatusFound, res.w.Code)
		require.Equal(t, middleware.LandingPath, res.w.Header().Get("Location"))
		require.Equal(t, []any{session.Flash{Class: session.FlashInfo, Msg: session.SignInRequiredMsg}}, res.flashes)
	})

	t.Run("No-Session-JSON", func(t *testing.T) {
		// Arrange
		c, p, _ := newAuth(t, new(identity.Emitter))
		p.EXPECT().GetSession(gomock.Any()).Return(nil, nil).Times(1)
		r := httptest.NewRequest(http.MethodGet, "https://example.com/chatbot", nil)
		r.Header.Set("Accept", "application/json")

		// Act
		res := serveGuarded(t, c, true, r)

		// Assert
		require.False(t, res.called)
		require.Equal(t, http.StatusUnauthorized, res.w.Code)

		var body map[string]string
		require.Nil(t, json.NewDecoder(res.w.Body).Decode(&body))
		require.Equal(t, middleware.LandingPath, body["redirect"])
	})

	t.Run("Provider-Errors", func(t *testing.T) {
		// Arrange
		c, p, _ := newAuth(t, new(identity.Emitter))
		p.EXPECT().GetSession(gomock.Any()).Return(signedIn, errProvider).Times(1)
		r := httptest.NewRequest(http.MethodGet, "https://example.com/questionnaire", nil)

		// Act
		res := serveGuarded(t, c, false, r)

		// Assert
		require.False(t, res.called)
		require.Equal(t, http.StatusFound, res.w.Code)
		require.Equal(t, middleware.LandingPath, res.w.Header().Get("Location"))
		require.Equal(t, []any{session.Flash{Class: session.FlashWarning, Msg: session.SessionCheckMsg}}, res.flashes)
	})

	t.Run("Provider-Errors-JSON", func(t *testing.T) {
		// Arrange
		c, p, _ := newAuth(t, new(identity.Emitter))
		p.EXPECT().GetSession(gomock.Any()).Return(nil, errProvider).Times(1)
		r := httptest.NewRequest(http.MethodPost, "https://example.com/api/chat", nil)
		r.Header.Set("Accept", "application/json")

		// Act
		res := serveGuarded(t, c, false, r)

		// Assert
		require.False(t, res.called)
		require.Equal(t, http.StatusUnauthorized, res.w.Code)
	})

	t.Run("No-Auth-Client", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "https://example.com/questionnaire", nil)

		// Act
		res := serveGuarded(t, nil, false, r)

		// Assert
		require.False(t, res.called)
		require.Equal(t, middleware.LandingPath, res.w.Header().Get("Location"))
	})

	t.Run("Session-Allowed", func(t *testing.T) {
		// Arrange
		c, p, _ := newAuth(t, new(identity.Emitter))
		p.EXPECT().GetSession(gomock.Any()).Return(signedIn, nil).Times(1)
		r := httptest.NewRequest(http.MethodGet, "https://example.com/questionnaire", nil)

		// Act
		res := serveGuarded(t, c, false, r)

		// Assert
		require.True(t, res.called)
		require.Equal(t, http.StatusOK, res.w.Code)
		require.Equal(t, user, res.user)
		require.Equal(t, "no-store", res.w.Header().Get("Cache-Control"))
	})

	for _, tc := range []struct {
		name     string
		flag     string
		expected bool
	}{
		{"Main-Incomplete", "", false},
		{"Main-Not-True", "yes", false},
		{"Main-Complete", "true", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			c, p, m := newAuth(t, new(identity.Emitter))
			p.EXPECT().GetSession(gomock.Any()).Return(signedIn, nil).Times(1)
			if tc.flag != "" {
				require.Nil(t, m.Set(context.Background(), auth.QuestionnaireCompletedKey, tc.flag))
			}

			r := httptest.NewRequest(http.MethodGet, "https://example.com/chatbot", nil)

			// Act
			res := serveGuarded(t, c, true, r)

			// Assert
			require.Equal(t, tc.expected, res.called)
			if tc.expected {
				require.Equal(t, user, res.user)
				return
			}

			require.Equal(t, http.StatusFound, res.w.Code)
			require.Equal(t, middleware.QuestionnairePath, res.w.Header().Get("Location"))
		})
	}
}

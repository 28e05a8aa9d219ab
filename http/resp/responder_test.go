package resp_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/session"
	tt "github.com/xy-planning-network/compass/http/template/templatetest"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/logger"
)

type testFn func(*testing.T, *httptest.ResponseRecorder, *http.Request, error)

const jsonMediaType = "application/json; charset=UTF-8"

func newLogger(b *bytes.Buffer) logger.Logger {
	return logger.NewLogger(logger.WithLogger(log.New(b, "", 0)))
}

func withSession(r *http.Request, stub *session.Stub) *http.Request {
	s, _ := stub.GetSession(r)
	return r.Clone(context.WithValue(r.Context(), compass.SessionKey, s))
}

func TestResponderDo(t *testing.T) {
	t.Run("Cancelled", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		ctx, cancel := context.WithCancel(r.Context())
		r = r.Clone(ctx)

		w := httptest.NewRecorder()
		w.WriteHeader(http.StatusPaymentRequired)

		cancel()

		d := resp.NewResponder()

		// Act
		err := d.Json(w, r, resp.Code(http.StatusTeapot))

		// Assert
		require.ErrorIs(t, err, resp.ErrDone)
		require.Equal(t, http.StatusPaymentRequired, w.Code)
	})
}

func TestResponderCurrentUser(t *testing.T) {
	user := &identity.User{ID: "u1"}
	tcs := []struct {
		name        string
		ctx         context.Context
		expectedVal *identity.User
		expectedErr error
	}{
		{"Not-Set", context.Background(), nil, resp.ErrNotFound},
		{"Set-With-Nil", context.WithValue(context.Background(), compass.CurrentUserKey, nil), nil, resp.ErrNotFound},
		{"Set-With-Wrong-Type", context.WithValue(context.Background(), compass.CurrentUserKey, struct{}{}), nil, resp.ErrNotFound},
		{"Set-With-Val", context.WithValue(context.Background(), compass.CurrentUserKey, user), user, nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := resp.NewResponder().CurrentUser(tc.ctx)
			require.ErrorIs(t, err, tc.expectedErr)
			require.Equal(t, tc.expectedVal, actual)
		})
	}
}

func TestResponderErr(t *testing.T) {
	tcs := []struct {
		name     string
		expected error
	}{
		{"Nil", nil},
		{"Custom", errors.New("my favorite error")},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
			w := httptest.NewRecorder()
			b := new(bytes.Buffer)
			d := resp.NewResponder(resp.WithLogger(newLogger(b)))

			// Act
			d.Err(w, r, tc.expected)

			// Assert
			require.Equal(t, http.StatusInternalServerError, w.Code)
			if tc.expected != nil {
				require.Contains(t, b.String(), tc.expected.Error())
			} else {
				require.Empty(t, b.String())
			}
		})
	}
}

func TestResponderJson(t *testing.T) {
	tcs := []struct {
		name   string
		fns    []resp.Fn
		assert testFn
	}{
		{
			name: "Zero-Value",
			fns:  []resp.Fn{},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, http.StatusOK, w.Code)
				require.Equal(t, jsonMediaType, w.Header().Get("Content-Type"))
				require.Equal(t, "{}\n", w.Body.String())
			},
		},
		{
			name: "With-Code",
			fns:  []resp.Fn{resp.Code(http.StatusUnauthorized)},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, http.StatusUnauthorized, w.Code)
				require.Equal(t, "{}\n", w.Body.String())
			},
		},
		{
			name: "With-Data",
			fns:  []resp.Fn{resp.Data(map[string]any{"status": "ok"})},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, http.StatusOK, w.Code)
				require.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
			},
		},
		{
			name: "Unencodable",
			fns:  []resp.Fn{resp.Data(func() {})},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.NotNil(t, err)
				require.Equal(t, http.StatusInternalServerError, w.Code)
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
			w := httptest.NewRecorder()
			d := resp.NewResponder(resp.WithLogger(newLogger(new(bytes.Buffer))))
			tc.assert(t, w, r, d.Json(w, r, tc.fns...))
		})
	}
}

func TestResponderRedirect(t *testing.T) {
	tcs := []struct {
		name   string
		fns    []resp.Fn
		assert testFn
	}{
		{
			name: "To-Root",
			fns:  []resp.Fn{},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, http.StatusFound, w.Code)
				require.Equal(t, "https://compass.example.com", w.Header().Get("Location"))
			},
		},
		{
			name: "Path",
			fns:  []resp.Fn{resp.Url("/questionnaire")},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, "https://compass.example.com/questionnaire", w.Header().Get("Location"))
			},
		},
		{
			name: "Path-And-Query",
			fns:  []resp.Fn{resp.Url("/chatbot?welcome=1")},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, "https://compass.example.com/chatbot?welcome=1", w.Header().Get("Location"))
			},
		},
		{
			name: "Bad-Url",
			fns:  []resp.Fn{resp.Url("")},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.ErrorIs(t, err, resp.ErrInvalid)
			},
		},
		{
			name: "Params",
			fns:  []resp.Fn{resp.Url("/"), resp.Param("go", "fun"), resp.Param("test", "true")},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, "https://compass.example.com/?go=fun&test=true", w.Header().Get("Location"))
			},
		},
		{
			name: "Overwrite-4xx",
			fns:  []resp.Fn{resp.Code(http.StatusTeapot)},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, http.StatusSeeOther, w.Code)
			},
		},
		{
			name: "Overwrite-5xx",
			fns:  []resp.Fn{resp.Code(http.StatusInternalServerError)},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, http.StatusTemporaryRedirect, w.Code)
			},
		},
		{
			name: "Keep-3xx",
			fns:  []resp.Fn{resp.Code(http.StatusMovedPermanently)},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.Nil(t, err)
				require.Equal(t, http.StatusMovedPermanently, w.Code)
			},
		},
		{
			name: "Flash-No-Session",
			fns:  []resp.Fn{resp.Flash(session.Flash{Class: session.FlashInfo, Msg: "hi"})},
			assert: func(t *testing.T, w *httptest.ResponseRecorder, r *http.Request, err error) {
				require.ErrorIs(t, err, resp.ErrNotFound)
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "https://compass.example.com/plan", nil)
			w := httptest.NewRecorder()
			d := resp.NewResponder(resp.WithRootUrl("https://compass.example.com"))
			tc.assert(t, w, r, d.Redirect(w, r, tc.fns...))
		})
	}
}

func TestResponderRedirectFlash(t *testing.T) {
	// Arrange
	stub := session.NewStub(nil)
	r := withSession(httptest.NewRequest(http.MethodGet, "/chatbot", nil), stub)
	w := httptest.NewRecorder()
	d := resp.NewResponder(resp.WithLogger(newLogger(new(bytes.Buffer))))

	// Act
	err := d.Redirect(w, r, resp.Warn(session.SignInRequiredMsg))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	s, err := d.Session(r.Context())
	require.Nil(t, err)
	require.Equal(t, []session.Flash{{Class: session.FlashWarning, Msg: session.SignInRequiredMsg}}, s.Flashes(w, r))
}

func TestResponderHtml(t *testing.T) {
	layout := tt.NewMockFile("layout.tmpl", []byte(
		`{{ with currentUser }}{{ .GetEmail }}|{{ end }}{{ range .Flashes }}{{ .Msg }}|{{ end }}{{ template "content" . }}`,
	))
	page := tt.NewMockFile("page.tmpl", []byte(`{{ define "content" }}{{ .Data }}{{ end }}`))
	broken := tt.NewMockFile("broken.tmpl", []byte(`{{ define "content" }}{{ .Data.Nope }}{{ end }}`))
	errTmpl := tt.NewMockFile("error.tmpl", []byte(`oops: {{ .Contact }}`))

	newResponder := func(b *bytes.Buffer) *resp.Responder {
		return resp.NewResponder(
			resp.WithLogger(newLogger(b)),
			resp.WithParser(tt.NewParser(layout, page, broken, errTmpl)),
			resp.WithLayoutTemplate("layout.tmpl"),
			resp.WithErrTemplate("error.tmpl"),
			resp.WithContactErrMsg("write us"),
		)
	}

	t.Run("Signed-Out", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		// Act
		err := newResponder(new(bytes.Buffer)).Html(w, r, resp.Tmpls("page.tmpl"), resp.Data("hello"))

		// Assert
		require.Nil(t, err)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "hello", w.Body.String())
	})

	t.Run("Signed-In-With-Flash", func(t *testing.T) {
		// Arrange
		stub := session.NewStub(nil)
		r := withSession(httptest.NewRequest(http.MethodGet, "/chatbot", nil), stub)
		r = r.Clone(context.WithValue(r.Context(), compass.CurrentUserKey, &identity.User{ID: "u1", Email: "visitor@example.com"}))
		w := httptest.NewRecorder()
		s, _ := stub.GetSession(r)
		require.Nil(t, s.SetFlash(w, r, session.Flash{Class: session.FlashInfo, Msg: "welcome"}))

		// Act
		err := newResponder(new(bytes.Buffer)).Html(w, r, resp.Tmpls("page.tmpl"), resp.Data("hello"))

		// Assert
		require.Nil(t, err)
		require.Equal(t, "visitor@example.com|welcome|hello", w.Body.String())
	})

	t.Run("No-Templates", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		b := new(bytes.Buffer)

		// Act
		err := newResponder(b).Html(w, r)

		// Assert
		require.ErrorIs(t, err, resp.ErrMissingData)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "oops: write us", w.Body.String())
		require.NotEmpty(t, b.String())
	})

	t.Run("Execute-Fails", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		// Act
		err := newResponder(new(bytes.Buffer)).Html(w, r, resp.Tmpls("broken.tmpl"), resp.Data("hello"))

		// Assert
		require.NotNil(t, err)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "oops: write us", w.Body.String())
	})

	t.Run("No-Parser", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		d := resp.NewResponder(resp.WithLogger(newLogger(new(bytes.Buffer))))

		// Act
		err := d.Html(w, r, resp.Tmpls("page.tmpl"))

		// Assert
		require.ErrorIs(t, err, resp.ErrBadConfig)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

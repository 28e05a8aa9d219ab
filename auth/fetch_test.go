package auth_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/compass/auth"
	"github.com/xy-planning-network/compass/identity"
)

// worker records the requests it receives and rejects tokens other than valid.
type worker struct {
	*httptest.Server

	mu     sync.Mutex
	valid  string
	auths  []string
	bodies []string
}

func newWorker(t *testing.T, valid string) *worker {
	w := &worker{valid: valid}
	w.Server = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)

		w.mu.Lock()
		w.auths = append(w.auths, r.Header.Get("Authorization"))
		w.bodies = append(w.bodies, string(b))
		w.mu.Unlock()

		if r.Header.Get("Content-Type") != "application/json" {
			rw.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}

		if r.Header.Get("Authorization") != "Bearer "+w.valid {
			rw.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(rw, `{"detail":"Invalid token"}`)
			return
		}

		_, _ = io.WriteString(rw, `{"reply":"ok"}`)
	}))
	t.Cleanup(w.Close)

	return w
}

func TestFetchNoAccessToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	w := newWorker(t, "a")
	c, _, _ := newTestClient(t)

	// Act
	res, err := c.Fetch(ctx, http.MethodGet, w.URL, nil)

	// Assert
	require.Nil(t, res)
	require.ErrorIs(t, err, auth.ErrNoAccessToken)
	require.Empty(t, w.auths)
}

func TestFetch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	w := newWorker(t, "a")
	c, _, _ := newTestClient(t)
	require.Nil(t, c.Tokens().StoreTokens(ctx, "a", "r"))

	// Act
	res, err := c.Fetch(ctx, http.MethodPost, w.URL, strings.NewReader(`{"message":"hi"}`))

	// Assert
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, []string{"Bearer a"}, w.auths)
	require.Equal(t, []string{`{"message":"hi"}`}, w.bodies)
}

func TestFetchRetriesOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	w := newWorker(t, "new-a")
	c, p, _ := newTestClient(t)
	require.Nil(t, c.Tokens().StoreTokens(ctx, "old-a", "r"))
	p.EXPECT().
		RefreshSession(ctx).
		Return(&identity.Session{AccessToken: "new-a", RefreshToken: "new-r"}, nil).
		Times(1)

	// Act
	res, err := c.Fetch(ctx, http.MethodPost, w.URL, strings.NewReader(`{"message":"hi"}`))

	// Assert
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, []string{"Bearer old-a", "Bearer new-a"}, w.auths)
	require.Equal(t, []string{`{"message":"hi"}`, `{"message":"hi"}`}, w.bodies)

	refresh, err := c.Tokens().RefreshToken(ctx)
	require.Nil(t, err)
	require.Equal(t, "new-r", refresh)
}

func TestFetchRetryStillUnauthorized(t *testing.T) {
	// Arrange
	ctx := context.Background()
	w := newWorker(t, "never")
	c, p, _ := newTestClient(t)
	require.Nil(t, c.Tokens().StoreTokens(ctx, "old-a", "r"))
	p.EXPECT().RefreshSession(ctx).Return(&identity.Session{AccessToken: "new-a"}, nil).Times(1)

	// Act
	res, err := c.Fetch(ctx, http.MethodGet, w.URL, nil)

	// Assert
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Len(t, w.auths, 2)
}

func TestFetchRefreshFails(t *testing.T) {
	// Arrange
	ctx := context.Background()
	w := newWorker(t, "new-a")
	c, p, _ := newTestClient(t)
	require.Nil(t, c.Tokens().StoreTokens(ctx, "old-a", "r"))
	p.EXPECT().RefreshSession(ctx).Return(nil, errProvider).Times(1)

	// Act
	res, err := c.Fetch(ctx, http.MethodGet, w.URL, nil)

	// Assert
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	b, err := io.ReadAll(res.Body)
	require.Nil(t, err)
	require.Equal(t, `{"detail":"Invalid token"}`, string(b))
	require.Len(t, w.auths, 1)
}

func TestFetchNoRetryOtherStatus(t *testing.T) {
	// Arrange
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	c, _, _ := newTestClient(t)
	require.Nil(t, c.Tokens().StoreTokens(ctx, "a", "r"))

	// Act
	res, err := c.Fetch(ctx, http.MethodGet, srv.URL, nil)

	// Assert
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestFetchTransportError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	c, _, _ := newTestClient(t)
	require.Nil(t, c.Tokens().StoreTokens(ctx, "a", "r"))

	// Act
	res, err := c.Fetch(ctx, http.MethodGet, addr, nil)

	// Assert
	require.Nil(t, res)
	require.NotNil(t, err)

	var opErr *net.OpError
	require.True(t, errors.As(err, &opErr))
}

func TestDoReplaysUnbufferedBody(t *testing.T) {
	// Arrange
	ctx := context.Background()
	w := newWorker(t, "new-a")
	c, p, _ := newTestClient(t)
	require.Nil(t, c.Tokens().StoreTokens(ctx, "old-a", "r"))
	p.EXPECT().RefreshSession(ctx).Return(&identity.Session{AccessToken: "new-a"}, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, io.NopCloser(strings.NewReader(`{"n":1}`)))
	require.Nil(t, err)
	require.Nil(t, req.GetBody)
	req.Header.Set("Content-Type", "application/json")

	// Act
	res, err := c.Do(req)

	// Assert
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, []string{`{"n":1}`, `{"n":1}`}, w.bodies)
}

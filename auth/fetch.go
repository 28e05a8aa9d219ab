package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrNoAccessToken returns when an authenticated request is attempted without a stored access token.
var ErrNoAccessToken = errors.New("no access token")

// Fetch sends a JSON request to rawURL authorized with the stored access token.
// See Do.
func (c *Client) Fetch(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.Do(req)
}

// Do sends req authorized with the stored access token.
//
// When the response is 401, Do refreshes the access token once
// and resends req with it, replaying its body.
// If refreshing fails, the 401 response is returned as is.
//
// Do returns ErrNoAccessToken without sending anything when no access token is stored.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, ErrNoAccessToken
	}

	if err := replayable(req); err != nil {
		return nil, err
	}

	res, err := c.send(req, token)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusUnauthorized {
		return res, nil
	}

	token, ok := c.RefreshAccessToken(ctx)
	if !ok {
		return res, nil
	}

	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()

	return c.send(req, token)
}

func (c *Client) send(req *http.Request, token string) (*http.Response, error) {
	out := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed replaying request body: %w", err)
		}
		out.Body = body
	}

	(&oauth2.Token{AccessToken: token}).SetAuthHeader(out)
	if out.Header.Get("Content-Type") == "" {
		out.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(out)
	if err != nil {
		return nil, fmt.Errorf("failed %s %s: %w", req.Method, req.URL.Redacted(), err)
	}

	return res, nil
}

// replayable buffers the body of req so it can be sent more than once.
func replayable(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}

	b, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return fmt.Errorf("failed reading request body: %w", err)
	}

	req.Body = io.NopCloser(bytes.NewReader(b))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}

	return nil
}

package gotrue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/storage"
	"golang.org/x/oauth2"
)

// GetSession retrieves the stored session, refreshing it first
// when its access token expires within the next 10 seconds.
// GetSession returns nil and no error when no session is stored.
//
// A session the auth server refuses to refresh is removed.
func (c *Client) GetSession(ctx context.Context) (*identity.Session, error) {
	s, err := c.load(ctx)
	if err != nil || s == nil {
		return nil, err
	}

	if !s.Expired(c.now(), expiryMargin) {
		return s, nil
	}

	s, err = c.refresh(ctx, s.RefreshToken)
	var ge *Error
	if errors.As(err, &ge) {
		return nil, nil
	}

	return s, err
}

// SetSession establishes the session proven by the token pair,
// such as one handed over by an OAuth redirect.
//
// An access token which already expired is exchanged by way of refreshToken.
func (c *Client) SetSession(ctx context.Context, accessToken, refreshToken string) (*identity.Session, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: access token cannot be empty", compass.ErrMissingData)
	}

	claims, err := c.claims(accessToken)
	if errors.Is(err, ErrTokenExpired) || (err == nil && claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time)) {
		if refreshToken == "" {
			return nil, fmt.Errorf("%w: access token expired and no refresh token given", compass.ErrMissingData)
		}

		return c.refresh(ctx, refreshToken)
	}

	if err != nil {
		return nil, err
	}

	user := new(identity.User)
	if err := c.do(ctx, http.MethodGet, "/user", nil, &oauth2.Token{AccessToken: accessToken}, nil, user); err != nil {
		return nil, err
	}

	s := &identity.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Unix()
		s.ExpiresIn = s.ExpiresAt - c.now().Unix()
	}

	if err := c.save(ctx, s); err != nil {
		return nil, err
	}
	c.events.Emit(identity.SignedIn, s)

	return s, nil
}

// RefreshSession exchanges the stored refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context) (*identity.Session, error) {
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	if s == nil || s.RefreshToken == "" {
		return nil, identity.ErrNoSession
	}

	return c.refresh(ctx, s.RefreshToken)
}

// SignOut revokes the stored session with the auth server and removes it.
//
// The session is removed even when revoking it fails.
// A session the auth server no longer knows of is not an error.
func (c *Client) SignOut(ctx context.Context) error {
	s, err := c.load(ctx)
	if err != nil {
		return err
	}

	var remote error
	if s != nil && s.AccessToken != "" {
		remote = c.do(ctx, http.MethodPost, "/logout", url.Values{"scope": []string{"global"}}, s.Token(), nil, nil)

		var ge *Error
		if errors.As(remote, &ge) && (errors.Is(ge, identity.ErrUnauthorized) || ge.Status == http.StatusNotFound) {
			remote = nil
		}
	}

	if err := c.remove(ctx); err != nil {
		return err
	}
	c.events.Emit(identity.SignedOut, nil)

	return remote
}

// refresh trades refreshToken for a new session, storing it.
//
// When the auth server rejects refreshToken, the stored session is removed.
func (c *Client) refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	c.refreshing.Lock()
	s, event, err := c.refreshLocked(ctx, refreshToken)
	c.refreshing.Unlock()

	if event != "" {
		c.events.Emit(event, s)
	}

	return s, err
}

func (c *Client) refreshLocked(ctx context.Context, refreshToken string) (*identity.Session, identity.Event, error) {
	// Another caller may have refreshed while this one waited.
	if cur, err := c.load(ctx); err == nil && cur != nil && cur.RefreshToken != refreshToken && !cur.Expired(c.now(), expiryMargin) {
		return cur, "", nil
	}

	s := new(identity.Session)
	body := map[string]string{"refresh_token": refreshToken}
	err := c.do(ctx, http.MethodPost, "/token", url.Values{"grant_type": []string{"refresh_token"}}, nil, body, s)

	var ge *Error
	if errors.As(err, &ge) {
		c.log.Warn("refresh token rejected", &logger.LogContext{Error: err})
		if rerr := c.remove(ctx); rerr != nil {
			return nil, "", rerr
		}

		return nil, identity.SignedOut, err
	}

	if err != nil {
		return nil, "", err
	}

	if s.AccessToken == "" {
		return nil, "", fmt.Errorf("%w: refresh returned no access token", compass.ErrUnexpected)
	}

	if err := c.save(ctx, s); err != nil {
		return nil, "", err
	}

	return s, identity.TokenRefreshed, nil
}

func (c *Client) claims(accessToken string) (*Claims, error) {
	if c.verifier != nil {
		return c.verifier.Verify(accessToken)
	}

	return parseUnverified(accessToken)
}

func (c *Client) load(ctx context.Context) (*identity.Session, error) {
	raw, err := c.store.Get(ctx, c.storageKey)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	s := new(identity.Session)
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		c.log.Warn("discarding unreadable session", &logger.LogContext{Error: err})
		return nil, c.remove(ctx)
	}

	return s, nil
}

func (c *Client) save(ctx context.Context, s *identity.Session) error {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = c.now().Unix() + s.ExpiresIn
	}

	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: cannot encode session: %s", compass.ErrUnexpected, err)
	}

	return c.store.Set(ctx, c.storageKey, string(b))
}

func (c *Client) remove(ctx context.Context) error {
	return c.store.Delete(ctx, c.storageKey)
}

package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/storage"
)

const defaultTimeout = 30 * time.Second

// A Client ties an identity.Provider to the Tokens of one visitor.
type Client struct {
	provider identity.Provider
	tokens   *Tokens
	log      logger.Logger
	http     *http.Client
}

// New constructs a *Client over p, persisting to s.
func New(p identity.Provider, s storage.Storage, opts ...ClientOptFn) *Client {
	c := &Client{
		provider: p,
		tokens:   NewTokens(s),
		http:     &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.NewLogger()
	}

	return c
}

// Tokens exposes the Client's state holder.
func (c *Client) Tokens() *Tokens { return c.tokens }

// IsAuthenticated asserts whether the provider has a current session.
func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	s, err := c.provider.GetSession(ctx)
	return s != nil, err
}

// Session retrieves the provider's current session, nil when there is none.
func (c *Client) Session(ctx context.Context) (*identity.Session, error) {
	return c.provider.GetSession(ctx)
}

// CurrentUser retrieves the user of the provider's current session.
func (c *Client) CurrentUser(ctx context.Context) (*identity.User, error) {
	return c.provider.GetUser(ctx)
}

// SignOut signs out with the provider and clears stored credentials and progress
// whether or not the provider succeeded.
//
// The provider's error is returned.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.provider.SignOut(ctx)
	if err != nil {
		c.log.Error("provider failed signing out", &logger.LogContext{Error: err})
	}

	c.clear(ctx)

	return err
}

// HandleOAuthCallback establishes a session from the tokens in the fragment of rawURL,
// the URL an OAuth provider redirected the visitor to.
//
// HandleOAuthCallback reports false when the fragment carries no access token
// or the provider rejects it; nothing is stored in either case.
// Otherwise, it returns rawURL's path and query, without the fragment.
func (c *Client) HandleOAuthCallback(ctx context.Context, rawURL string) (string, bool) {
	// NOTE(dlk): url.Parse rejects a fragment with a stray escape, so it is split off first.
	rawURL, frag, _ := strings.Cut(rawURL, "#")
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	vals := fragmentValues(frag)
	access := vals.Get("access_token")
	if access == "" {
		return "", false
	}
	refresh := vals.Get("refresh_token")

	s, err := c.provider.SetSession(ctx, access, refresh)
	if err != nil {
		c.log.Error("provider rejected OAuth callback tokens", &logger.LogContext{Error: err})
		return "", false
	}

	// The provider may have exchanged an expired pair.
	if s != nil && s.AccessToken != "" {
		access, refresh = s.AccessToken, s.RefreshToken
	}

	if err := c.tokens.StoreTokens(ctx, access, refresh); err != nil {
		c.log.Error("failed storing OAuth callback tokens", &logger.LogContext{Error: err})
		return "", false
	}

	clean := u.EscapedPath()
	if clean == "" {
		clean = "/"
	}
	if u.RawQuery != "" {
		clean += "?" + u.RawQuery
	}

	return clean, true
}

// RefreshAccessToken makes one attempt to refresh the provider's session,
// storing and returning the new access token.
// It reports false when the provider fails or returns no session.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, bool) {
	s, err := c.provider.RefreshSession(ctx)
	if err != nil {
		c.log.Warn("failed refreshing session", &logger.LogContext{Error: err})
		return "", false
	}

	if s == nil || s.AccessToken == "" {
		c.log.Warn("refreshing returned no session", nil)
		return "", false
	}

	if err := c.tokens.StoreTokens(ctx, s.AccessToken, s.RefreshToken); err != nil {
		c.log.Error("failed storing refreshed tokens", &logger.LogContext{Error: err})
	}

	return s.AccessToken, true
}

// Listen keeps the stored tokens in step with the provider's auth state changes
// until the returned Subscription is released.
//
// Writes made in response to an event use ctx.
func (c *Client) Listen(ctx context.Context) identity.Subscription {
	return c.provider.OnAuthStateChange(func(event identity.Event, s *identity.Session) {
		switch event {
		case identity.SignedIn, identity.TokenRefreshed, identity.UserUpdated:
			if s == nil {
				return
			}

			if err := c.tokens.StoreTokens(ctx, s.AccessToken, s.RefreshToken); err != nil {
				c.log.Error("failed storing tokens", &logger.LogContext{
					Data:  map[string]any{"event": event.String()},
					Error: err,
				})
			}

		case identity.SignedOut:
			c.clear(ctx)
		}
	})
}

// fragmentValues parses a URL fragment of form-encoded pairs.
// Pairs which cannot be unescaped are kept as written rather than failing the rest.
func fragmentValues(frag string) url.Values {
	vals := make(url.Values)
	for _, pair := range strings.Split(frag, "&") {
		if pair == "" {
			continue
		}

		k, v := pair, ""
		if i := strings.Index(pair, "="); i >= 0 {
			k, v = pair[:i], pair[i+1:]
		}
		vals.Add(unescapeLenient(k), unescapeLenient(v))
	}

	return vals
}

func unescapeLenient(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}

	return strings.ReplaceAll(s, "+", " ")
}

func (c *Client) clear(ctx context.Context) {
	if err := c.tokens.ClearTokens(ctx); err != nil {
		c.log.Error("failed clearing tokens", &logger.LogContext{Error: err})
	}

	if err := c.tokens.ClearProgress(ctx); err != nil {
		c.log.Error("failed clearing questionnaire progress", &logger.LogContext{Error: err})
	}
}

package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/storage"
	"golang.org/x/oauth2"
)

const (
	authPath       = "/auth/v1"
	defaultTimeout = 10 * time.Second

	// expiryMargin refreshes sessions about to expire before they are handed out.
	expiryMargin = 10 * time.Second
)

var _ identity.Provider = new(Client)

// A Config provides the values for reaching a Supabase project's auth server.
type Config struct {
	// URL is the project URL, e.g., https://abcdefgh.supabase.co
	URL string

	// APIKey is the project's anon key.
	APIKey string

	// JWTSecret verifies access tokens handed to SetSession.
	// When empty, token claims are read without verifying their signature.
	JWTSecret string
}

// A Client is the [identity.Provider] backed by the Supabase auth REST API.
//
// The Client persists its current session in a [storage.Storage]
// and notifies subscribers of every change to it.
type Client struct {
	base       *url.URL
	apiKey     string
	verifier   *Verifier
	http       *http.Client
	store      storage.Storage
	storageKey string
	log        logger.Logger
	now        func() time.Time
	events     *identity.Emitter

	// refreshing serializes refreshes so a refresh token is spent once.
	refreshing sync.Mutex
}

// New constructs a *Client from cfg and the ClientOptFns passed in.
//
// Without WithStorage, sessions are held in memory.
func New(cfg Config, opts ...ClientOptFn) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf(`%w: APIKey cannot be ""`, compass.ErrBadConfig)
	}

	base, err := url.ParseRequestURI(cfg.URL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: URL %q is not valid", compass.ErrBadConfig, cfg.URL)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")

	c := &Client{
		base:       base,
		apiKey:     cfg.APIKey,
		http:       &http.Client{Timeout: defaultTimeout},
		storageKey: StorageKey(base),
		now:        time.Now,
		events:     new(identity.Emitter),
	}

	if cfg.JWTSecret != "" {
		if c.verifier, err = NewVerifier(cfg.JWTSecret); err != nil {
			return nil, err
		}
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.verifier != nil {
		c.verifier.now = c.now
	}

	if c.store == nil {
		c.store = storage.NewMap()
	}

	if c.log == nil {
		c.log = logger.NewLogger()
	}

	return c, nil
}

// StorageKey is the key a Client persists its session under for the project at u:
// "sb-<project ref>-auth-token".
func StorageKey(u *url.URL) string {
	ref := strings.SplitN(u.Hostname(), ".", 2)[0]
	return "sb-" + ref + "-auth-token"
}

// OnAuthStateChange subscribes fn to every change of the Client's session.
func (c *Client) OnAuthStateChange(fn identity.Handler) identity.Subscription {
	return c.events.Subscribe(fn)
}

// SignInURL builds the URL sending a visitor to sign in with the OAuth provider,
// e.g., "google", returning to redirectTo with the session in the URL fragment.
func (c *Client) SignInURL(provider, redirectTo string) string {
	u := c.endpoint("/authorize")
	q := url.Values{"provider": []string{provider}}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.base
	u.Path = c.base.Path + authPath + path
	return &u
}

// do sends a JSON request to the auth server, decoding a successful response into out.
//
// When token is empty, the request is authorized with the API key.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, tok *oauth2.Token, body, out any) error {
	u := c.endpoint(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: cannot encode request: %s", compass.ErrUnexpected, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return fmt.Errorf("%w: cannot build request: %s", compass.ErrUnexpected, err)
	}

	if tok == nil || tok.AccessToken == "" {
		tok = &oauth2.Token{AccessToken: c.apiKey}
	}
	req.Header.Set("apikey", c.apiKey)
	tok.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.NewDecoder(res.Body).Decode(&eb)
		return eb.toError(res.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: cannot decode %s %s: %s", compass.ErrUnexpected, method, path, err)
	}

	return nil
}

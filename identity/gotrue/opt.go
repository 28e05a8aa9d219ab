package gotrue

import (
	"net/http"
	"time"

	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/storage"
)

// A ClientOptFn configures a *Client when constructing it.
type ClientOptFn func(*Client)

// WithClock sets the function reporting the current time, used for expiry checks.
func WithClock(now func() time.Time) ClientOptFn {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithHTTPClient sets the *http.Client requests to the auth server are sent with.
func WithHTTPClient(hc *http.Client) ClientOptFn {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.Logger the Client logs through.
func WithLogger(l logger.Logger) ClientOptFn {
	return func(c *Client) {
		c.log = l
	}
}

// WithStorage sets where the Client persists its session.
func WithStorage(s storage.Storage) ClientOptFn {
	return func(c *Client) {
		c.store = s
	}
}

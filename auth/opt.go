package auth

import (
	"net/http"

	"github.com/xy-planning-network/compass/logger"
)

// A ClientOptFn configures a *Client when constructing it.
type ClientOptFn func(*Client)

// WithHTTPClient sets the *http.Client authenticated requests are sent with.
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

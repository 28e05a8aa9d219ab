package gotrue

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/compass/identity"
)

// UserAttributes are the fields of a user UpdateUser changes.
// Empty fields are left as they are.
type UserAttributes struct {
	Email    string         `json:"email,omitempty"`
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// GetUser retrieves the user of the current session from the auth server.
func (c *Client) GetUser(ctx context.Context) (*identity.User, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	if s == nil {
		return nil, identity.ErrNoSession
	}

	user := new(identity.User)
	if err := c.do(ctx, http.MethodGet, "/user", nil, s.Token(), nil, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser changes the user of the current session, storing the result.
func (c *Client) UpdateUser(ctx context.Context, attrs UserAttributes) (*identity.User, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	if s == nil {
		return nil, identity.ErrNoSession
	}

	user := new(identity.User)
	if err := c.do(ctx, http.MethodPut, "/user", nil, s.Token(), attrs, user); err != nil {
		return nil, err
	}

	s.User = user
	if err := c.save(ctx, s); err != nil {
		return nil, err
	}
	c.events.Emit(identity.UserUpdated, s)

	return user, nil
}

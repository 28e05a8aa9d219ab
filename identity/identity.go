package identity

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

//go:generate mockgen -destination=identitymock/provider.go -package=identitymock . Provider

var (
	// ErrNoSession returns when an operation requires a session and none is stored.
	ErrNoSession = errors.New("no session")

	// ErrUnauthorized matches provider responses rejecting the credentials presented.
	ErrUnauthorized = errors.New("unauthorized")
)

// An Event names a change in auth state.
type Event string

const (
	SignedIn       Event = "SIGNED_IN"
	SignedOut      Event = "SIGNED_OUT"
	TokenRefreshed Event = "TOKEN_REFRESHED"
	UserUpdated    Event = "USER_UPDATED"
)

func (e Event) String() string { return string(e) }

// A User is the account a Session proves.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Role         string         `json:"role,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// GetID implements logger.LogUser.
func (u *User) GetID() string {
	if u == nil {
		return ""
	}

	return u.ID
}

// GetEmail implements logger.LogUser.
func (u *User) GetEmail() string {
	if u == nil {
		return ""
	}

	if u.Email == "" {
		return u.ID
	}

	return u.Email
}

// A Session is the provider-issued proof of an authenticated User.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`

	// ExpiresAt is the Unix time the AccessToken expires at.
	ExpiresAt int64 `json:"expires_at,omitempty"`
	User      *User `json:"user,omitempty"`
}

// Expiry is the time the AccessToken expires at or the zero time.Time when unknown.
func (s *Session) Expiry() time.Time {
	if s == nil || s.ExpiresAt == 0 {
		return time.Time{}
	}

	return time.Unix(s.ExpiresAt, 0)
}

// Expired asserts whether the AccessToken expires within margin of now.
// A Session without a known expiry never expires.
func (s *Session) Expired(now time.Time, margin time.Duration) bool {
	exp := s.Expiry()
	if exp.IsZero() {
		return false
	}

	return !now.Add(margin).Before(exp)
}

// Token converts the Session into an *oauth2.Token.
func (s *Session) Token() *oauth2.Token {
	if s == nil {
		return nil
	}

	typ := s.TokenType
	if typ == "" {
		typ = "bearer"
	}

	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    typ,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry(),
	}
}

// A Handler is notified of each Event and the Session current after it.
// The Session is nil for SignedOut.
type Handler func(event Event, s *Session)

// A Subscription detaches a Handler from the events it was subscribed to.
type Subscription interface {
	// Unsubscribe stops all further notifications.
	// Calling Unsubscribe more than once is safe.
	Unsubscribe()
}

// A Provider is the external identity provider.
type Provider interface {
	// GetSession retrieves the current session, or nil when there is none.
	GetSession(ctx context.Context) (*Session, error)

	// GetUser retrieves the user of the current session from the provider.
	GetUser(ctx context.Context) (*User, error)

	// SetSession establishes a session from a token pair, such as one issued through OAuth.
	SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error)

	// RefreshSession exchanges the current refresh token for a new session.
	RefreshSession(ctx context.Context) (*Session, error)

	// SignOut ends the current session.
	SignOut(ctx context.Context) error

	// OnAuthStateChange subscribes fn to all changes in auth state.
	OnAuthStateChange(fn Handler) Subscription
}

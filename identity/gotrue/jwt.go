package gotrue

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/compass"
)

// Audience is the audience the auth server issues access tokens for.
const Audience = "authenticated"

// Claims are the claims of an access token issued by the auth server.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// A Verifier checks the signature and claims of access tokens
// using the project's JWT secret.
type Verifier struct {
	key    []byte
	parser *jwt.Parser
	now    func() time.Time
}

// NewVerifier constructs a *Verifier for tokens signed with secret.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf(`%w: JWT secret cannot be ""`, compass.ErrBadConfig)
	}

	return &Verifier{
		key:    []byte(secret),
		parser: &jwt.Parser{
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
			SkipClaimsValidation: true,
		},
		now: time.Now,
	}, nil
}

// Verify decodes the claims of token, checking its signature, expiry and audience.
//
// A token whose only fault is having expired returns its claims alongside ErrTokenExpired.
func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := new(Claims)
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err)
	}

	if !claims.VerifyAudience(Audience, true) {
		return nil, fmt.Errorf("%w: audience is not %q", ErrTokenInvalid, Audience)
	}

	now := v.now()
	if !claims.VerifyNotBefore(now, false) {
		return nil, fmt.Errorf("%w: not valid before %s", ErrTokenInvalid, claims.NotBefore)
	}

	if !claims.VerifyExpiresAt(now, false) {
		return claims, fmt.Errorf("%w: expired at %s", ErrTokenExpired, claims.ExpiresAt)
	}

	return claims, nil
}

// parseUnverified decodes the claims of token without checking its signature.
func parseUnverified(token string) (*Claims, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err)
	}

	return claims, nil
}

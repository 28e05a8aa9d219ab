package gotrue_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/identity/gotrue"
)

func TestNewVerifier(t *testing.T) {
	v, err := gotrue.NewVerifier("")
	require.Nil(t, v)
	require.ErrorIs(t, err, compass.ErrBadConfig)
}

func TestVerify(t *testing.T) {
	// Arrange
	v, err := gotrue.NewVerifier(testSecret)
	require.Nil(t, err)

	wrongAud, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{"anon"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.Nil(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Audience: jwt.ClaimStrings{gotrue.Audience},
	}).SignedString([]byte(testSecret))
	require.Nil(t, err)

	for _, tc := range []struct {
		name     string
		token    string
		expected error
		claims   bool
	}{
		{"Valid", mint(t, testSecret, time.Now().Add(time.Hour)), nil, true},
		{"Expired", mint(t, testSecret, time.Now().Add(-time.Hour)), gotrue.ErrTokenExpired, true},
		{"Wrong-Secret", mint(t, "other-secret", time.Now().Add(time.Hour)), gotrue.ErrTokenInvalid, false},
		{"Expired-Wrong-Secret", mint(t, "other-secret", time.Now().Add(-time.Hour)), gotrue.ErrTokenInvalid, false},
		{"Wrong-Audience", wrongAud, gotrue.ErrTokenInvalid, false},
		{"Wrong-Algorithm", wrongAlg, gotrue.ErrTokenInvalid, false},
		{"Garbage", "abc.def.ghi", gotrue.ErrTokenInvalid, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			claims, err := v.Verify(tc.token)

			// Assert
			require.ErrorIs(t, err, tc.expected)
			if tc.claims {
				require.Equal(t, testUserID, claims.Subject)
				require.Equal(t, "visitor@example.com", claims.Email)
			} else {
				require.Nil(t, claims)
			}
		})
	}
}

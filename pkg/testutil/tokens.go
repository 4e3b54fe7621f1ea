package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// testSigningKey signs tokens the client only ever decodes without verification.
var testSigningKey = []byte("storefront-test-key")

// AccessTokenClaims mirrors the identity provider's access token claims.
type AccessTokenClaims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"cognito:username,omitempty"`
	jwt.RegisteredClaims
}

// NewAccessToken issues a signed JWT for subject expiring at exp.
func NewAccessToken(t *testing.T, subject, email string, exp time.Time) string {
	t.Helper()
	return NewAccessTokenWithClaims(t, AccessTokenClaims{
		Email:    email,
		Username: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		},
	})
}

// NewAccessTokenWithClaims issues a signed JWT carrying claims.
func NewAccessTokenWithClaims(t *testing.T, claims AccessTokenClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	require.NoError(t, err, "failed to sign test token")
	return signed
}

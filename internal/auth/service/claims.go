package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"bazar/internal/auth/models"
)

var errNoExpiry = errors.New("access token has no expiry")

// accessClaims are the claims the storefront reads from the access token.
type accessClaims struct {
	Email    string `json:"email"`
	Username string `json:"cognito:username"`
	jwt.RegisteredClaims
}

// sessionFromTokens decodes the access token without verifying it. The
// backend verifies every call; the client only needs identity and expiry.
func sessionFromTokens(accessToken, idToken string) (*models.Session, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		return nil, errNoExpiry
	}

	display := claims.Username
	if display == "" {
		display = claims.Email
	}
	return &models.Session{
		AccessToken: accessToken,
		IDToken:     idToken,
		User: models.User{
			ID:          claims.Subject,
			Email:       claims.Email,
			DisplayName: display,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

package adapters

import (
	"context"
	"net/http"
	"net/url"

	"bazar/internal/auth/models"
	"bazar/internal/gateway"
	dErrors "bazar/pkg/domain-errors"
)

// caller is the slice of the gateway the auth endpoints need. Every auth
// endpoint is public; the refresh credential rides in the cookie jar.
type caller interface {
	CallPublic(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Backend adapts the backend's /auth endpoints to the session manager.
type Backend struct {
	gw caller
}

// NewBackend wraps a gateway.
func NewBackend(gw caller) *Backend {
	return &Backend{gw: gw}
}

// LoginURL asks the backend for the identity provider's authorization URL.
// An empty result is returned as "" so the caller decides how to fail.
func (b *Backend) LoginURL(ctx context.Context, redirectURI, state string) (string, error) {
	resp, err := b.gw.CallPublic(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/auth/login-url",
		Query:  url.Values{"redirectUri": {redirectURI}, "state": {state}},
	})
	if err != nil {
		return "", err
	}
	out, err := gateway.DecodeData[struct {
		LoginURL string `json:"loginUrl"`
	}](resp)
	if err != nil {
		return "", err
	}
	return out.LoginURL, nil
}

// ExchangeCode trades an authorization code for tokens. redirectURI must be
// the exact value embedded in the authorization URL.
func (b *Backend) ExchangeCode(ctx context.Context, code, redirectURI string) (*models.TokenPair, error) {
	resp, err := b.gw.CallPublic(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/token",
		Body: map[string]string{
			"code":        code,
			"redirectUri": redirectURI,
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeTokens(resp)
}

// Refresh renews the tokens using the HTTP-only refresh cookie.
func (b *Backend) Refresh(ctx context.Context) (*models.TokenPair, error) {
	resp, err := b.gw.CallPublic(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
	})
	if err != nil {
		return nil, err
	}
	return decodeTokens(resp)
}

func decodeTokens(resp *gateway.Response) (*models.TokenPair, error) {
	pair, err := gateway.DecodeData[models.TokenPair](resp)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, dErrors.New(dErrors.CodeRequestFailed, "token response did not include an access token")
	}
	return &pair, nil
}

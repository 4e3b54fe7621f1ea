package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazar/internal/auth/store/token"
	"bazar/internal/gateway"
	"bazar/internal/platform/logger"
	dErrors "bazar/pkg/domain-errors"
)

func newBackend(t *testing.T, h http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	gw, err := gateway.New(srv.URL, token.NewInMemoryStore(), gateway.WithLogger(logger.Discard()))
	require.NoError(t, err)
	return NewBackend(gw)
}

func respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginURL(t *testing.T) {
	var gotPath, gotRedirect, gotState string
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRedirect = r.URL.Query().Get("redirectUri")
		gotState = r.URL.Query().Get("state")
		respond(w, map[string]any{"data": map[string]string{"loginUrl": "https://idp.example/authorize?x=1"}})
	})

	loginURL, err := b.LoginURL(context.Background(), "http://localhost:3000/auth/callback", "nonce-1")
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example/authorize?x=1", loginURL)
	assert.Equal(t, "/auth/login-url", gotPath)
	assert.Equal(t, "http://localhost:3000/auth/callback", gotRedirect)
	assert.Equal(t, "nonce-1", gotState)
}

func TestExchangeCode(t *testing.T) {
	t.Run("posts code and redirect URI", func(t *testing.T) {
		var body map[string]string
		b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/token", r.URL.Path)
			_ = json.NewDecoder(r.Body).Decode(&body)
			respond(w, map[string]any{"data": map[string]any{"access_token": "a1", "id_token": "i1", "expires_in": 3600}})
		})

		pair, err := b.ExchangeCode(context.Background(), "code-1", "https://app.example/auth/callback")
		require.NoError(t, err)
		assert.Equal(t, "a1", pair.AccessToken)
		assert.Equal(t, "i1", pair.IDToken)
		assert.Equal(t, 3600, pair.ExpiresIn)
		assert.Equal(t, "code-1", body["code"])
		assert.Equal(t, "https://app.example/auth/callback", body["redirectUri"])
	})

	t.Run("missing access token is a failure", func(t *testing.T) {
		b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, map[string]any{"data": map[string]string{"id_token": "i1"}})
		})

		_, err := b.ExchangeCode(context.Background(), "code-1", "uri")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRequestFailed))
	})

	t.Run("backend rejection surfaces the message", func(t *testing.T) {
		b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			respond(w, map[string]string{"message": "invalid_grant"})
		})

		_, err := b.ExchangeCode(context.Background(), "code-1", "uri")
		var rf *gateway.RequestFailed
		require.ErrorAs(t, err, &rf)
		assert.Equal(t, "invalid_grant", rf.Message)
	})
}

func TestRefresh(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		respond(w, map[string]any{"data": map[string]string{"access_token": "a2"}})
	})

	pair, err := b.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", pair.AccessToken)
	assert.Empty(t, pair.IDToken)
}

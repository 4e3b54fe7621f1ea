package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"BAZAR_API_BASE_URL", "REACT_APP_API_URL", "BAZAR_STORE_ID", "BAZAR_APP_ORIGIN",
		"BAZAR_LISTEN_ADDR", "AUTH_DEFAULT_REDIRECT", "AUTH_HANDSHAKE_TTL", "REDIS_URL", "REDIS_SESSION_TTL", "BAZAR_CALLBACK_RATE_LIMIT"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 9, cfg.API.StoreID)
	assert.Equal(t, "http://localhost:3000/auth/callback", cfg.Auth.CallbackURI)
	assert.Equal(t, "/catalog", cfg.Auth.DefaultPostLoginPath)
	assert.Equal(t, 10*time.Minute, cfg.Auth.HandshakeTTL)
	assert.Equal(t, "127.0.0.1:3000", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Server.CallbackRateLimit)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 8*time.Hour, cfg.Redis.SessionTTL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Run("explicit base URL wins over the legacy variable", func(t *testing.T) {
		t.Setenv("BAZAR_API_BASE_URL", "https://api.example.com/v1/")
		t.Setenv("REACT_APP_API_URL", "https://legacy.example.com")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/v1", cfg.API.BaseURL)
	})

	t.Run("legacy variable is used when the explicit one is unset", func(t *testing.T) {
		t.Setenv("BAZAR_API_BASE_URL", "")
		t.Setenv("REACT_APP_API_URL", "https://legacy.example.com/api/v1")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "https://legacy.example.com/api/v1", cfg.API.BaseURL)
	})

	t.Run("origin drives the callback URI", func(t *testing.T) {
		t.Setenv("BAZAR_APP_ORIGIN", "http://127.0.0.1:4000/")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:4000/auth/callback", cfg.Auth.CallbackURI)
	})
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"BAZAR_STORE_ID":            "nine",
		"AUTH_HANDSHAKE_TTL":        "-1m",
		"AUTH_DEFAULT_REDIRECT":     "catalog",
		"BAZAR_API_BASE_URL":        "not a url",
		"REDIS_SESSION_TTL":         "forever",
		"BAZAR_CALLBACK_RATE_LIMIT": "lots",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

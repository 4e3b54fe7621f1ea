package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIBaseURL    = "http://localhost:8080/api/v1"
	defaultStoreID       = 9
	defaultListenAddr    = "127.0.0.1:3000"
	defaultAppOrigin     = "http://localhost:3000"
	defaultPostLoginPath = "/catalog"
	callbackPath         = "/auth/callback"

	defaultCallbackRateLimit = 30
)

// Config is the full storefront configuration.
type Config struct {
	API    API
	Auth   Auth
	Server Server
	Redis  RedisConfig
	Log    Log
}

// API describes the backend the gateway talks to.
type API struct {
	BaseURL string
	StoreID int
}

// Auth captures sign-in redirect bookkeeping.
type Auth struct {
	// CallbackURI is the redirect URI handed to the backend when requesting a
	// login URL. It must resolve to the listener's /auth/callback route.
	CallbackURI          string
	DefaultPostLoginPath string
	HandshakeTTL         time.Duration
}

// Server captures the loopback listener that receives browser redirects.
type Server struct {
	Addr      string
	AppOrigin string
	// CallbackRateLimit caps /auth/callback requests per IP per minute; 0 disables.
	CallbackRateLimit int
}

// RedisConfig configures the optional Redis token store. An empty URL keeps
// tokens in process memory.
type RedisConfig struct {
	URL string
	// SessionID resumes a stored session across restarts; empty starts a new one.
	SessionID    string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SessionTTL   time.Duration
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	baseURL := firstEnv("BAZAR_API_BASE_URL", "REACT_APP_API_URL")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("invalid API base URL %q", baseURL)
	}

	storeID, err := envInt("BAZAR_STORE_ID", defaultStoreID)
	if err != nil {
		return Config{}, err
	}

	origin := strings.TrimRight(envOr("BAZAR_APP_ORIGIN", defaultAppOrigin), "/")
	if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("invalid app origin %q", origin)
	}

	postLogin := envOr("AUTH_DEFAULT_REDIRECT", defaultPostLoginPath)
	if !strings.HasPrefix(postLogin, "/") {
		return Config{}, fmt.Errorf("AUTH_DEFAULT_REDIRECT must be an absolute path, got %q", postLogin)
	}

	handshakeTTL, err := envDuration("AUTH_HANDSHAKE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}

	callbackLimit, err := envInt("BAZAR_CALLBACK_RATE_LIMIT", defaultCallbackRateLimit)
	if err != nil {
		return Config{}, err
	}

	redisCfg, err := redisFromEnv()
	if err != nil {
		return Config{}, err
	}

	return Config{
		API: API{
			BaseURL: baseURL,
			StoreID: storeID,
		},
		Auth: Auth{
			CallbackURI:          origin + callbackPath,
			DefaultPostLoginPath: postLogin,
			HandshakeTTL:         handshakeTTL,
		},
		Server: Server{
			Addr:              envOr("BAZAR_LISTEN_ADDR", defaultListenAddr),
			AppOrigin:         origin,
			CallbackRateLimit: callbackLimit,
		},
		Redis: redisCfg,
		Log: Log{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "text"),
		},
	}, nil
}

func redisFromEnv() (RedisConfig, error) {
	cfg := RedisConfig{
		URL:       os.Getenv("REDIS_URL"),
		SessionID: os.Getenv("BAZAR_SESSION_ID"),
	}
	var err error
	if cfg.PoolSize, err = envInt("REDIS_POOL_SIZE", 10); err != nil {
		return RedisConfig{}, err
	}
	if cfg.MinIdleConns, err = envInt("REDIS_MIN_IDLE_CONNS", 1); err != nil {
		return RedisConfig{}, err
	}
	if cfg.DialTimeout, err = envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return RedisConfig{}, err
	}
	if cfg.ReadTimeout, err = envDuration("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return RedisConfig{}, err
	}
	if cfg.WriteTimeout, err = envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return RedisConfig{}, err
	}
	if cfg.SessionTTL, err = envDuration("REDIS_SESSION_TTL", 8*time.Hour); err != nil {
		return RedisConfig{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

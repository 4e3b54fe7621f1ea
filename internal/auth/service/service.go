// Package service runs the storefront's sign-in session: the authorization
// code redirect flow, silent refresh, and local logout.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bazar/internal/auth/models"
	"bazar/internal/auth/store/token"
	"bazar/internal/platform/metrics"
	"bazar/pkg/requestcontext"
)

// TokenStore holds tokens and handshake values for the session.
type TokenStore interface {
	Set(ctx context.Context, kind token.Kind, value string) error
	SetMany(ctx context.Context, values map[token.Kind]string) error
	Get(ctx context.Context, kind token.Kind) (string, error)
	Clear(ctx context.Context, kinds ...token.Kind) error
	ClearAll(ctx context.Context) error
}

// AuthBackend is the backend's /auth surface.
type AuthBackend interface {
	LoginURL(ctx context.Context, redirectURI, state string) (string, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (*models.TokenPair, error)
	Refresh(ctx context.Context) (*models.TokenPair, error)
}

// Navigator sends the shopper's browser to an external URL.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// Config holds the redirect settings.
type Config struct {
	CallbackURI          string
	DefaultPostLoginPath string
	HandshakeTTL         time.Duration
}

// Manager owns the session state machine. Safe for concurrent use: login,
// callback, refresh and auth checks each run at most once at a time, and
// concurrent callers share the running attempt's result.
type Manager struct {
	tokens    TokenStore
	backend   AuthBackend
	navigator Navigator
	cfg       Config
	logger    *slog.Logger
	metrics   *metrics.Metrics

	flights singleflight.Group

	mu      sync.RWMutex
	state   models.State
	session *models.Session
	pending *models.PendingAuthHandshake
	// completed remembers the post-login path per exchanged code so a repeated
	// callback never exchanges the same code twice.
	completed map[string]string
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// New builds a Manager in the Anonymous state.
func New(tokens TokenStore, backend AuthBackend, navigator Navigator, cfg Config, opts ...Option) *Manager {
	if cfg.DefaultPostLoginPath == "" {
		cfg.DefaultPostLoginPath = "/catalog"
	}
	if cfg.HandshakeTTL <= 0 {
		cfg.HandshakeTTL = 10 * time.Minute
	}
	m := &Manager{
		tokens:    tokens,
		backend:   backend,
		navigator: navigator,
		cfg:       cfg,
		logger:    slog.Default(),
		state:     models.StateAnonymous,
		completed: make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// State returns the current flow state.
func (m *Manager) State() models.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Session returns a copy of the active session, or nil when signed out.
func (m *Manager) Session() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	cp := *m.session
	return &cp
}

// IsAuthenticated reports whether an unexpired session is active.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsAuthenticated(requestcontext.Now(ctx))
}

// User returns the signed-in shopper.
func (m *Manager) User() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return models.User{}, false
	}
	return m.session.User, true
}

// PendingHandshake returns a copy of the live sign-in handshake, if any.
func (m *Manager) PendingHandshake() *models.PendingAuthHandshake {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pending == nil {
		return nil
	}
	cp := *m.pending
	return &cp
}

// Logout forgets the session locally. The backend is not told.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.tokens.ClearAll(ctx)

	m.mu.Lock()
	m.session = nil
	m.pending = nil
	m.state = models.StateAnonymous
	m.completed = make(map[string]string)
	m.mu.Unlock()

	if err != nil {
		m.logger.WarnContext(ctx, "failed to clear stored tokens on logout", "error", err)
		return err
	}
	m.logger.InfoContext(ctx, "signed out")
	return nil
}

// activate installs an authenticated session.
func (m *Manager) activate(session *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session
	m.state = models.StateAuthenticated
	m.pending = nil
}

// clearSession drops the tokens but leaves a live sign-in handshake alone so
// an in-progress login can still complete.
func (m *Manager) clearSession(ctx context.Context) {
	if err := m.tokens.Clear(ctx, token.SessionKinds...); err != nil {
		m.logger.WarnContext(ctx, "failed to clear stored tokens", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	if m.pending.IsLive(requestcontext.Now(ctx)) {
		m.state = models.StateAwaitingCallback
		return
	}
	m.pending = nil
	m.state = models.StateAnonymous
}

// storeTokens writes the token pair in one step. An absent identity token
// leaves the stored one in place.
func (m *Manager) storeTokens(ctx context.Context, pair *models.TokenPair) error {
	values := map[token.Kind]string{token.KindAccessToken: pair.AccessToken}
	if pair.IDToken != "" {
		values[token.KindIDToken] = pair.IDToken
	}
	return m.tokens.SetMany(ctx, values)
}

// lookup reads a stored value, treating any failure as absent.
func (m *Manager) lookup(ctx context.Context, kind token.Kind) string {
	v, err := m.tokens.Get(ctx, kind)
	if err != nil {
		return ""
	}
	return v
}

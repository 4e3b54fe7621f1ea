package service

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"bazar/internal/auth/models"
	"bazar/internal/auth/store/token"
	dErrors "bazar/pkg/domain-errors"
	"bazar/pkg/requestcontext"
)

// Login starts the redirect sign-in flow and sends the browser to the
// identity provider. Concurrent calls join the running attempt, and a call
// made while a handshake is still live is a no-op, so at most one handshake
// exists at a time. An empty postLoginPath uses the configured default.
func (m *Manager) Login(ctx context.Context, postLoginPath string) error {
	_, err, _ := m.flights.Do("login", func() (any, error) {
		return nil, m.login(ctx, postLoginPath)
	})
	return err
}

func (m *Manager) login(ctx context.Context, postLoginPath string) error {
	now := requestcontext.Now(ctx)

	m.mu.Lock()
	if m.pending.IsLive(now) {
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "sign-in already pending, ignoring login")
		return nil
	}
	m.state = models.StateLoggingIn
	m.session = nil
	m.pending = nil
	m.completed = make(map[string]string)
	m.mu.Unlock()

	if postLoginPath == "" {
		postLoginPath = m.cfg.DefaultPostLoginPath
	}

	if err := m.tokens.ClearAll(ctx); err != nil {
		return m.abortLogin(ctx, dErrors.Wrap(err, dErrors.CodeLoginInitiationFailed, "could not start sign-in"))
	}

	handshake := &models.PendingAuthHandshake{
		State:           uuid.NewString(),
		RedirectURIUsed: m.cfg.CallbackURI,
		PostLoginPath:   postLoginPath,
		CreatedAt:       now,
		ExpiresAt:       now.Add(m.cfg.HandshakeTTL),
	}
	if err := m.tokens.SetMany(ctx, map[token.Kind]string{
		token.KindAuthState:       handshake.State,
		token.KindAuthRedirect:    handshake.PostLoginPath,
		token.KindAuthRedirectURI: handshake.RedirectURIUsed,
	}); err != nil {
		return m.abortLogin(ctx, dErrors.Wrap(err, dErrors.CodeLoginInitiationFailed, "could not start sign-in"))
	}

	loginURL, err := m.backend.LoginURL(ctx, m.cfg.CallbackURI, handshake.State)
	if err != nil {
		return m.abortLogin(ctx, dErrors.Wrap(err, dErrors.CodeLoginInitiationFailed, "could not start sign-in"))
	}
	if loginURL == "" {
		return m.abortLogin(ctx, dErrors.New(dErrors.CodeLoginInitiationFailed, "no login URL received from the server"))
	}

	// The provider compares redirect URIs byte-for-byte, so the exchange must
	// echo whatever the backend actually put in the authorization URL.
	if embedded := embeddedRedirectURI(loginURL); embedded != "" && embedded != handshake.RedirectURIUsed {
		handshake.RedirectURIUsed = embedded
		if err := m.tokens.Set(ctx, token.KindAuthRedirectURI, embedded); err != nil {
			return m.abortLogin(ctx, dErrors.Wrap(err, dErrors.CodeLoginInitiationFailed, "could not start sign-in"))
		}
	}

	m.mu.Lock()
	m.pending = handshake
	m.state = models.StateAwaitingCallback
	m.mu.Unlock()

	if err := m.navigator.Navigate(ctx, loginURL); err != nil {
		return m.abortLogin(ctx, dErrors.Wrap(err, dErrors.CodeLoginInitiationFailed, "could not open the sign-in page"))
	}

	m.metrics.IncrementLoginsStarted()
	m.logger.InfoContext(ctx, "sign-in started", "post_login_path", postLoginPath)
	return nil
}

// abortLogin drops the handshake of a failed attempt so the next one starts clean.
func (m *Manager) abortLogin(ctx context.Context, err error) error {
	if clearErr := m.tokens.Clear(ctx, token.HandshakeKinds...); clearErr != nil {
		m.logger.WarnContext(ctx, "failed to clear sign-in handshake", "error", clearErr)
	}

	m.mu.Lock()
	m.pending = nil
	m.state = models.StateAnonymous
	m.mu.Unlock()

	m.logger.WarnContext(ctx, "sign-in could not start", "error", err)
	return err
}

func embeddedRedirectURI(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("redirect_uri")
}

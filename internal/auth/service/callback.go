package service

import (
	"context"

	"bazar/internal/auth/models"
	"bazar/internal/auth/store/token"
	dErrors "bazar/pkg/domain-errors"
)

// HandleCallback completes sign-in with the code the provider redirected
// back with, and returns the path to show next. Duplicate calls for the same
// code, concurrent or later, share one exchange and get the same path.
//
// The state check is advisory: a mismatch is logged and counted but the
// exchange still runs, because the backend validates the code itself.
func (m *Manager) HandleCallback(ctx context.Context, code, receivedState string) (string, error) {
	if code == "" {
		m.metrics.IncrementCallback(false)
		return "", dErrors.New(dErrors.CodeCallbackExchangeFailed, "missing authorization code")
	}

	m.mu.RLock()
	path, done := m.completed[code]
	m.mu.RUnlock()
	if done {
		return path, nil
	}

	v, err, _ := m.flights.Do("callback:"+code, func() (any, error) {
		return m.handleCallback(ctx, code, receivedState)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *Manager) handleCallback(ctx context.Context, code, receivedState string) (string, error) {
	m.mu.RLock()
	path, done := m.completed[code]
	m.mu.RUnlock()
	if done {
		return path, nil
	}

	storedState := m.lookup(ctx, token.KindAuthState)
	if storedState == "" || storedState != receivedState {
		m.metrics.IncrementStateMismatch()
		m.logger.WarnContext(ctx, "callback state does not match the pending sign-in, continuing",
			"has_stored_state", storedState != "")
	}

	redirectURI := m.lookup(ctx, token.KindAuthRedirectURI)
	if redirectURI == "" {
		redirectURI = m.cfg.CallbackURI
	}
	postLoginPath := m.lookup(ctx, token.KindAuthRedirect)
	if postLoginPath == "" {
		postLoginPath = m.cfg.DefaultPostLoginPath
	}

	pair, err := m.backend.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return "", m.failCallback(ctx, err)
	}
	session, err := sessionFromTokens(pair.AccessToken, pair.IDToken)
	if err != nil {
		return "", m.failCallback(ctx, err)
	}
	if err := m.storeTokens(ctx, pair); err != nil {
		return "", m.failCallback(ctx, err)
	}
	if err := m.tokens.Clear(ctx, token.HandshakeKinds...); err != nil {
		m.logger.WarnContext(ctx, "failed to clear sign-in handshake", "error", err)
	}

	m.mu.Lock()
	m.session = session
	m.state = models.StateAuthenticated
	m.pending = nil
	m.completed[code] = postLoginPath
	m.mu.Unlock()

	m.metrics.IncrementCallback(true)
	m.logger.InfoContext(ctx, "signed in", "user_id", session.User.ID, "post_login_path", postLoginPath)
	return postLoginPath, nil
}

// failCallback clears the session and the handshake so a retry starts fresh.
func (m *Manager) failCallback(ctx context.Context, cause error) error {
	if err := m.tokens.ClearAll(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to clear session after sign-in failure", "error", err)
	}

	m.mu.Lock()
	m.session = nil
	m.pending = nil
	m.state = models.StateAnonymous
	m.mu.Unlock()

	m.metrics.IncrementCallback(false)
	m.logger.WarnContext(ctx, "sign-in callback failed", "error", cause)
	return dErrors.Wrap(cause, dErrors.CodeCallbackExchangeFailed, "sign-in could not be completed")
}

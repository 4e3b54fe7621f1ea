package service

import (
	"context"

	"bazar/internal/auth/store/token"
	"bazar/pkg/requestcontext"
)

// Refresh renews the session with the refresh cookie. It never fails loudly:
// false means the session was cleared and the shopper must sign in again.
// Concurrent callers share one backend call.
func (m *Manager) Refresh(ctx context.Context) bool {
	v, _, _ := m.flights.Do("refresh", func() (any, error) {
		return m.refresh(ctx), nil
	})
	return v.(bool)
}

func (m *Manager) refresh(ctx context.Context) bool {
	pair, err := m.backend.Refresh(ctx)
	if err != nil {
		m.logger.InfoContext(ctx, "session refresh failed", "error", err)
		m.metrics.IncrementRefresh(false)
		m.clearSession(ctx)
		return false
	}

	idToken := pair.IDToken
	if idToken == "" {
		idToken = m.lookup(ctx, token.KindIDToken)
	}
	session, err := sessionFromTokens(pair.AccessToken, idToken)
	if err != nil {
		m.logger.WarnContext(ctx, "refreshed access token is unreadable", "error", err)
		m.metrics.IncrementRefresh(false)
		m.clearSession(ctx)
		return false
	}
	if err := m.storeTokens(ctx, pair); err != nil {
		m.logger.WarnContext(ctx, "failed to store refreshed tokens", "error", err)
		m.metrics.IncrementRefresh(false)
		m.clearSession(ctx)
		return false
	}

	m.activate(session)
	m.metrics.IncrementRefresh(true)
	m.logger.DebugContext(ctx, "session refreshed", "user_id", session.User.ID)
	return true
}

// CheckAuth restores the session from the stored access token, refreshing
// when it is absent or expired and clearing it when it cannot be decoded.
// Idempotent; concurrent callers share one check.
func (m *Manager) CheckAuth(ctx context.Context) bool {
	v, _, _ := m.flights.Do("check", func() (any, error) {
		return m.checkAuth(ctx), nil
	})
	return v.(bool)
}

func (m *Manager) checkAuth(ctx context.Context) bool {
	accessToken := m.lookup(ctx, token.KindAccessToken)
	if accessToken == "" {
		return m.Refresh(ctx)
	}

	session, err := sessionFromTokens(accessToken, m.lookup(ctx, token.KindIDToken))
	if err != nil {
		m.logger.WarnContext(ctx, "stored access token is unreadable, clearing session", "error", err)
		m.clearSession(ctx)
		return false
	}
	if !session.IsAuthenticated(requestcontext.Now(ctx)) {
		return m.Refresh(ctx)
	}

	m.activate(session)
	return true
}

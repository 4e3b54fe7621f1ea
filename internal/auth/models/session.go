package models

import "time"

// State is where the session is in the sign-in flow.
type State int

const (
	StateAnonymous State = iota
	StateLoggingIn
	StateAwaitingCallback
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateLoggingIn:
		return "logging_in"
	case StateAwaitingCallback:
		return "awaiting_callback"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User is the shopper as described by the access token claims.
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// Session is the authenticated shopper's credentials. A session exists only
// while an access token is stored.
type Session struct {
	AccessToken string
	IDToken     string
	User        User
	ExpiresAt   time.Time
}

// IsAuthenticated is true iff an access token is present and unexpired at now.
func (s *Session) IsAuthenticated(now time.Time) bool {
	return s != nil && s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// PendingAuthHandshake is the bookkeeping for one sign-in attempt. It lives
// from login initiation until the callback is handled or it expires.
type PendingAuthHandshake struct {
	State string
	// RedirectURIUsed is echoed byte-for-byte during the code exchange.
	RedirectURIUsed string
	PostLoginPath   string
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// IsLive reports whether the handshake still blocks a new sign-in at now.
func (h *PendingAuthHandshake) IsLive(now time.Time) bool {
	return h != nil && now.Before(h.ExpiresAt)
}

// TokenPair is the backend's token payload for exchange and refresh.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

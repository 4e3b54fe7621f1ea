// Package token stores the access and identity tokens plus the transient
// sign-in handshake values for one storefront session.
package token

// Kind names one stored value. The string forms match the backend's
// session-storage key names.
type Kind string

const (
	KindAccessToken     Kind = "access_token"
	KindIDToken         Kind = "id_token"
	KindAuthState       Kind = "auth_state"
	KindAuthRedirect    Kind = "auth_redirect"
	KindAuthRedirectURI Kind = "auth_redirect_uri"
)

// AllKinds lists every kind ClearAll removes.
var AllKinds = []Kind{
	KindAccessToken,
	KindIDToken,
	KindAuthState,
	KindAuthRedirect,
	KindAuthRedirectURI,
}

// SessionKinds are the token values.
var SessionKinds = []Kind{KindAccessToken, KindIDToken}

// HandshakeKinds are the values of a pending sign-in.
var HandshakeKinds = []Kind{KindAuthState, KindAuthRedirect, KindAuthRedirectURI}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

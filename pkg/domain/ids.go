package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "bazar/pkg/domain-errors"
)

// ProductID identifies a catalog product. The backend emits product IDs as JSON
// numbers in some payloads and strings in others; both decode to the same value.
type ProductID string

// SessionID scopes server-side token storage to one storefront session.
type SessionID uuid.UUID

const maxProductIDLength = 64

// ParseProductID validates a product identifier received from user input.
func ParseProductID(s string) (ProductID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "product ID is required")
	}
	if len(s) > maxProductIDLength || !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid product ID")
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) || r == '/' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid product ID")
		}
	}
	return ProductID(s), nil
}

func (id ProductID) String() string {
	return string(id)
}

// IsNumeric reports whether the ID is a canonical unsigned integer (no sign,
// no leading zeros), i.e. one that can be written as a JSON number verbatim.
func (id ProductID) IsNumeric() bool {
	s := string(id)
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// MarshalJSON writes numeric IDs back as JSON numbers so the backend sees the
// same shape it sent.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ProductID(n.String())
	return nil
}

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// ParseSessionID validates a session identifier.
func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session ID is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid session ID")
	}
	if parsed == uuid.Nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session ID cannot be nil")
	}
	return SessionID(parsed), nil
}

func (id SessionID) String() string {
	return uuid.UUID(id).String()
}

func (id SessionID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

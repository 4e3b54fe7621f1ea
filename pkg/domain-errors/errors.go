// Package domainerrors defines the coded errors shared by the storefront services.
//
// Services return *Error values (directly or wrapped) so callers can branch on a
// stable Code instead of matching on message text. Stores return sentinel errors
// from pkg/platform/sentinel; services translate them into coded errors here.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeLoginInitiationFailed     Code = "login_initiation_failed"
	CodeCallbackExchangeFailed    Code = "callback_exchange_failed"
	CodeAuthenticationRequired    Code = "authentication_required"
	CodeRequestFailed             Code = "request_failed"
	CodeDiscountApplicationFailed Code = "discount_application_failed"
	CodeCartMutationFailed        Code = "cart_mutation_failed"
	CodeInvalidInput              Code = "invalid_input"
	CodeBadRequest                Code = "bad_request"
	CodeNotFound                  Code = "not_found"
	CodeConflict                  Code = "conflict"
	CodeIllegalTransition         Code = "illegal_transition"
	CodeUnavailable               Code = "unavailable"
	CodeInternal                  Code = "internal_error"
)

// Error is a coded domain error. Message is safe to show to an end user.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so errors.Is finds a code
// anywhere in a wrapped chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, &Error{Code: code})
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the outermost *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the user-facing message of the outermost *Error in err's
// chain, falling back to err.Error().
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

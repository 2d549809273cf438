// Package errors defines the error taxonomy that is allowed to reach the HTTP
// boundary. Every service operation returns either nil or an *Error; raw store
// and driver errors are converted at the edge of the service layer and never
// leak to clients.
package errors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind discriminates error variants. Handlers and middleware map a Kind to an
// HTTP status code without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindConflict
	KindNotFound
	KindRuleViolation
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation, KindRuleViolation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged application error. Fields carries per-field messages for
// validation failures and is empty for every other kind.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
}

func (e *Error) Error() string { return e.Message }

// Unauthenticated builds a 401 error.
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// Forbidden builds a 403 error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Validation builds a 400 error carrying one message per violated field.
func Validation(fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// Conflict builds a 409 error for unique-constraint violations.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NotFound builds a 404 error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// RuleViolation builds a 400 error for business-rule failures.
func RuleViolation(msg string) *Error {
	return &Error{Kind: KindRuleViolation, Message: msg}
}

// Internal builds a 500 error with a generic client-facing message.
func Internal() *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error"}
}

// FromStore converts a gorm error into a taxonomy member. Unique-constraint
// violations become Conflict, missing rows become NotFound with the given
// message, and anything else is downgraded to Internal.
func FromStore(err error, notFoundMsg string) *Error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("resource already exists")
	default:
		return Internal()
	}
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

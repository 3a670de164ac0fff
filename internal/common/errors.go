// Package common defines shared constants and sentinel errors used across
// client and server layers of Gowear. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account lifecycle errors.
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrNotApproved        = errors.New("account not approved by admin")
	ErrMethodMismatch     = errors.New("account uses a different sign-in method")

	// OTP errors. ErrOTPExpired also covers the no-such-record case so the
	// response does not reveal whether an email ever requested a code.
	ErrOTPExpired = errors.New("OTP expired or invalid")
	ErrOTPInvalid = errors.New("invalid OTP")

	// Token lifecycle errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrNoRefreshToken = errors.New("no refresh token")
)

// ValidationError aggregates per-field validation messages, e.g. from
// registration input checks. The zero map is never valid; construct with
// NewValidationError.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	msgs := e.Messages()
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the field messages in deterministic (field-sorted) order.
func (e *ValidationError) Messages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e.Fields[f])
	}
	return msgs
}

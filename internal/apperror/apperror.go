// Package apperror defines the error kinds surfaced by the access-control core.
//
// Every rejection carries a machine readable Kind and a human readable message.
// Kinds map to one stable HTTP status code, so handlers never have to guess
// whether a failure was a denial, a missing record or an internal fault.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error.
type Kind string

const (
	// KindNotFound is used when a principal, role, application or record is missing.
	KindNotFound Kind = "not_found"
	// KindValidation is used for malformed input such as an invalid permission set.
	KindValidation Kind = "validation_error"
	// KindAuthFailure is used for a bad password or a bad one-time code.
	KindAuthFailure Kind = "auth_failure"
	// KindPermissionDenied is used when a role lacks a permission or is outside the allowed roles.
	KindPermissionDenied Kind = "permission_denied"
	// KindConfiguration is used for operator faults, e.g. a missing OAuth application row.
	KindConfiguration Kind = "configuration_error"
	// KindDeliveryFailed is used when the SMS gateway rejects or cannot be reached.
	KindDeliveryFailed Kind = "delivery_failed"
	// KindExpired is used when a one-time code is absent, consumed or past its TTL.
	KindExpired Kind = "expired"
	// KindConflict is used for duplicates (email, phone, permission rows).
	KindConflict Kind = "conflict"
	// KindInternal is used for everything unexpected.
	KindInternal Kind = "internal_error"
)

// Sentinels usable with errors.Is. A sentinel matches any Error of the same kind.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrAuthFailure      = &Error{Kind: KindAuthFailure}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrConfiguration    = &Error{Kind: KindConfiguration}
	ErrDeliveryFailed   = &Error{Kind: KindDeliveryFailed}
	ErrExpired          = &Error{Kind: KindExpired}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrInternal         = &Error{Kind: KindInternal}
)

// Error is the single error type returned across service boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return string(e.Kind) + ": " + e.Err.Error()
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// StatusCode returns the HTTP status code for the error kind.
func (e *Error) StatusCode() int {
	return StatusCodeOf(e.Kind)
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// Validation creates a KindValidation error.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// AuthFailure creates a KindAuthFailure error.
func AuthFailure(format string, args ...any) *Error {
	return New(KindAuthFailure, format, args...)
}

// PermissionDenied creates a KindPermissionDenied error.
func PermissionDenied(format string, args ...any) *Error {
	return New(KindPermissionDenied, format, args...)
}

// Conflict creates a KindConflict error.
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// Expired creates a KindExpired error.
func Expired(format string, args ...any) *Error {
	return New(KindExpired, format, args...)
}

// Internal wraps an unexpected error.
func Internal(err error, format string, args ...any) *Error {
	return Wrap(KindInternal, err, format, args...)
}

// KindOf returns the kind of err. Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return KindInternal
}

// StatusCode returns the HTTP status code for err.
func StatusCode(err error) int {
	return StatusCodeOf(KindOf(err))
}

// StatusCodeOf returns the HTTP status code for a kind.
func StatusCodeOf(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	case KindDeliveryFailed:
		return http.StatusBadGateway
	case KindConfiguration, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// internal/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// WithMessage creates a new error with the same code and a more specific message.
func WithMessage(base *Error, message string) *Error {
	return &Error{
		Code:    base.Code,
		Message: message,
	}
}

// UserMessage returns the message suitable for display, without code or cause.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr.Message
	}
	return err.Error()
}

// Predefined errors
var (
	// Date range errors, reported one at a time
	ErrMissingDate        = &Error{Code: "MISSING_DATE", Message: "Please select both dates"}
	ErrStartBeforeMinimum = &Error{Code: "START_BEFORE_MINIMUM", Message: "Start date is before the allowed window"}
	ErrEndAfterMaximum    = &Error{Code: "END_AFTER_MAXIMUM", Message: "End date is after the allowed window"}
	ErrStartAfterEnd      = &Error{Code: "START_AFTER_END", Message: "Start date cannot be greater than end date"}
	ErrInvalidDate        = &Error{Code: "INVALID_DATE", Message: "Dates must use the YYYY-MM-DD format"}

	// Fetch errors
	ErrFetchFailed   = &Error{Code: "FETCH_FAILED", Message: "Failed to fetch signals"}
	ErrFetchInFlight = &Error{Code: "FETCH_IN_FLIGHT", Message: "Signals are already being fetched"}

	// Export errors
	ErrNoResults     = &Error{Code: "NO_RESULTS", Message: "no signals to export"}
	ErrExportFailed  = &Error{Code: "EXPORT_FAILED", Message: "export failed"}
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "archiving export failed"}
	ErrNotFound      = &Error{Code: "NOT_FOUND", Message: "not found"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Request errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}
	ErrRateLimited  = &Error{Code: "RATE_LIMITED", Message: "rate limit exceeded"}
)

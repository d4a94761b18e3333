// Package errors provides error handling for rangelink.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//   - Marking errors with sentinel identities
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := loadConfig(); err != nil {
//	    return errors.Wrap(err, "failed to load delimiters")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "delimiters must not contain digits")
//
//	// Check errors
//	if errors.Is(err, errors.ErrInvalidLink) {
//	    // treat the text as plain content
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions are reserved for caller bugs, never for bad user input.
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Common sentinel errors for use across rangelink.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidLink indicates text that looks like a link but cannot be navigated
	ErrInvalidLink = New("invalid link")

	// ErrInvalidDelimiters indicates a delimiter configuration that failed validation
	ErrInvalidDelimiters = New("invalid delimiters")

	// ErrNoSelections indicates the formatter was called without any selection
	ErrNoSelections = New("no selections")

	// ErrInvalidSelection indicates a selection with negative or inverted coordinates
	ErrInvalidSelection = New("invalid selection")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsInvalidLinkError checks if an error is or wraps ErrInvalidLink
func IsInvalidLinkError(err error) bool {
	return err != nil && Is(err, ErrInvalidLink)
}

// IsInvalidDelimitersError checks if an error is or wraps ErrInvalidDelimiters
func IsInvalidDelimitersError(err error) bool {
	return err != nil && Is(err, ErrInvalidDelimiters)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

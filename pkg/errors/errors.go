// Package errors provides structured error types for cm2kit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the layer that raises them:
//   - circuit construction: UNKNOWN_KIND, UNRESOLVED_REFERENCE, INVALID_STEPPING,
//     INVALID_WIDTH, UNKNOWN_PORT, FAMILY_GAP, INVALID_NAME, DUPLICATE_NAME
//   - geometry: INVALID_GEOMETRY
//   - input formats: INVALID_FORMAT, INVALID_MANIFEST, UNKNOWN_GENERATOR
//   - storage: NOT_FOUND
//   - everything else: INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownKind, "unknown block kind %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownKind) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Circuit construction errors
	ErrCodeUnknownKind         Code = "UNKNOWN_KIND"
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	ErrCodeInvalidStepping     Code = "INVALID_STEPPING"
	ErrCodeInvalidWidth        Code = "INVALID_WIDTH"
	ErrCodeUnknownPort         Code = "UNKNOWN_PORT"
	ErrCodeFamilyGap           Code = "FAMILY_GAP"
	ErrCodeInvalidName         Code = "INVALID_NAME"
	ErrCodeDuplicateName       Code = "DUPLICATE_NAME"

	// Geometry errors
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"

	// Input format errors
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeUnknownGenerator Code = "UNKNOWN_GENERATOR"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It walks the whole error tree, so a code stays visible after an outer
// layer wraps the error with fmt.Errorf or with another *Error.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok && e.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return Is(u.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

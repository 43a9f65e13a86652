/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeCatalogLoad indicates malformed or inconsistent compatibility
	// catalog data. Fatal at startup, never recovered.
	ErrCodeCatalogLoad ErrorCode = "CATALOG_LOAD"
	// ErrCodeUnknownVersion indicates a user-specified exact version has no
	// catalog entry at all.
	ErrCodeUnknownVersion ErrorCode = "UNKNOWN_VERSION"
	// ErrCodeNoCompatibleVersion indicates the combination of constraints has
	// no joint catalog match, even though each version exists individually.
	ErrCodeNoCompatibleVersion ErrorCode = "NO_COMPATIBLE_VERSION"
	// ErrCodeUnsupportedPlatform indicates a resolved triple has no build
	// recipe. This is an internal-consistency defect, not user-actionable.
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimitExceeded indicates the client exceeded an enforced request limit.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeMethodNotAllowed indicates the HTTP method is not allowed for the resource.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// ErrCodeUnavailable indicates an external collaborator (container engine,
	// registry) is unreachable or temporarily unavailable.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// StructuredError provides structured error information for better
// observability. It includes an error code for programmatic handling, a
// human-readable message, the underlying cause, and optional context for
// debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the ErrorCode carried by err if it is (or wraps) a
// StructuredError, or ErrCodeInternal otherwise.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err is (or wraps) a StructuredError with the
// given code.
func HasCode(err error, code ErrorCode) bool {
	var se *StructuredError
	return errors.As(err, &se) && se.Code == code
}

// Package errors provides structured error types for cartogen.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Per-item failures that do not abort a whole generalization run
//   - Recoverable warnings returned alongside results
//
// # Error Codes
//
// Run-level failures abort a pipeline run immediately:
//   - UNSUPPORTED_FEATURE_CLASS: no pipeline is registered for the class
//   - INVALID_CONFIG: a threshold set or table failed validation
//   - INVALID_INPUT: malformed input collections
//
// Item-level failures abort only the feature or subgraph that raised them
// and are reported through [ItemError]:
//   - GEOMETRY_ERROR: invalid or degenerate geometry produced or consumed
//   - AMBIGUOUS_STRUCTURE: a flow network without a well-defined direction
//
// # Usage
//
//	err := errors.New(errors.ErrCodeGeometry, "buffer of %s collapsed to empty", id)
//	if errors.Is(err, errors.ErrCodeGeometry) {
//	    // skip this feature
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGeometry, geosErr, "unable to buffer feature %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input and configuration errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Dispatch errors
	ErrCodeUnsupportedClass Code = "UNSUPPORTED_FEATURE_CLASS"

	// Per-item errors
	ErrCodeGeometry           Code = "GEOMETRY_ERROR"
	ErrCodeAmbiguousStructure Code = "AMBIGUOUS_STRUCTURE"

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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
		return e.Message
	}
	return err.Error()
}

// UnsupportedFeatureClassError is returned when no pipeline is registered
// for the requested feature class.
type UnsupportedFeatureClassError struct {
	Class     string
	Supported []string
}

// Error implements the error interface.
func (e *UnsupportedFeatureClassError) Error() string {
	return fmt.Sprintf("%s: unsupported feature class %q (supported: %v)", ErrCodeUnsupportedClass, e.Class, e.Supported)
}

// Code returns the error code for this error type.
func (e *UnsupportedFeatureClassError) Code() Code {
	return ErrCodeUnsupportedClass
}

// AmbiguousStructureError reports a network component whose flow direction
// cannot be determined, either because it contains a cycle or because no
// single outlet can be chosen.
type AmbiguousStructureError struct {
	Component int      // Component index in deterministic order
	Nodes     []string // Outlet candidates, or the component's nodes for cycles
	Features  []string // Features whose edges belong to the component
	Reason    string
}

// Error implements the error interface.
func (e *AmbiguousStructureError) Error() string {
	return fmt.Sprintf("%s: component %d: %s", ErrCodeAmbiguousStructure, e.Component, e.Reason)
}

// Code returns the error code for this error type.
func (e *AmbiguousStructureError) Code() Code {
	return ErrCodeAmbiguousStructure
}

// ItemError attributes a failure to a single feature. Runs collect these
// and keep processing the rest of the collection.
type ItemError struct {
	FeatureID string
	Stage     string
	Err       error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("feature %s (%s): %v", e.FeatureID, e.Stage, e.Err)
	}
	return fmt.Sprintf("feature %s: %v", e.FeatureID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code carried by err, including the typed errors that
// expose a Code method.
func CodeOf(err error) Code {
	if c := GetCode(err); c != "" {
		return c
	}
	var coded interface{ Code() Code }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     apperror
// Description: Coded errors shared by the engine packages
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an engine error
type Code string

const (
	// CodeShapeMismatch marks a violated precondition on tensor shapes or per-row bounds
	CodeShapeMismatch Code = "SHAPE_MISMATCH"
	// CodeUnknownStrategy marks a pricing or tax strategy name outside the closed set
	CodeUnknownStrategy Code = "UNKNOWN_STRATEGY"
	// CodeMalformedInput marks input rows that fail cleaning (API numbers, columns, dates)
	CodeMalformedInput Code = "MALFORMED_INPUT"
	// CodeInvalidConfig marks configuration that fails validation
	CodeInvalidConfig Code = "INVALID_CONFIG"
	// CodeStorage marks failures of the result store
	CodeStorage Code = "STORAGE"
	// CodeInternal is used for wrapped errors without a more specific code
	CodeInternal Code = "INTERNAL"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Fatal reports whether callers should stop instead of recovering locally.
// Shape and strategy errors are programming errors at the call site.
func (c Code) Fatal() bool {
	switch c {
	case CodeShapeMismatch, CodeUnknownStrategy:
		return true
	default:
		return false
	}
}

// Error is a coded error with optional cause and details
type Error struct {
	code    Code
	message string
	cause   error
	details map[string]interface{}
}

// New creates a new coded error
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a new coded error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a message. The code of a wrapped *Error is kept
// unless it is CodeInternal.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	var inner *Error
	if code == CodeInternal && errors.As(err, &inner) {
		code = inner.code
	}
	return &Error{code: code, message: message, cause: err}
}

// WithDetail returns a copy of the error carrying an extra detail
func (e *Error) WithDetail(key string, value interface{}) *Error {
	clone := *e
	clone.details = make(map[string]interface{}, len(e.details)+1)
	for k, v := range e.details {
		clone.details[k] = v
	}
	clone.details[key] = value
	return &clone
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.code))
	b.WriteString(": ")
	b.WriteString(e.message)
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.details[k])
		}
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Message returns the message without code, details or cause
func (e *Error) Message() string {
	return e.message
}

// Details returns the attached details
func (e *Error) Details() map[string]interface{} {
	return e.details
}

// CodeOf returns the code of the outermost *Error in the chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeInternal
}

// Is reports whether any *Error in the chain carries code
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// ShapeMismatch is a shorthand for the most common engine error
func ShapeMismatch(format string, args ...interface{}) *Error {
	return Newf(CodeShapeMismatch, format, args...)
}

// Package errors provides coded errors for the failures this core can
// actually surface. The scoring path degrades numerically instead of
// erroring; the codes here cover construction time only (configuration,
// corpus loading, weight-table validation).
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies an error class.
type Code string

const (
	// CodeConfig indicates invalid configuration.
	CodeConfig Code = "ERR_CONFIG"
	// CodeCorpusLoad indicates a malformed or unreadable corpus.
	CodeCorpusLoad Code = "ERR_CORPUS_LOAD"
	// CodeWeightTable indicates a weight table referencing unknown features.
	CodeWeightTable Code = "ERR_WEIGHT_TABLE"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around a cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code so errors.Is works across wrapped instances.
func (e *Error) Is(target error) bool {
	var t *Error
	if stderrors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

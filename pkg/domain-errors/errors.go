// Package derrors provides coded domain errors shared by every module.
//
// Services wrap infrastructure failures and rule violations into a coded
// error; transports map codes onto their own status space. Codes are part of
// the module contract: tests assert on them, handlers switch on them.
package derrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for programmatic handling.
type Code string

const (
	// CodeValidation marks malformed input rejected before any state is touched.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks a single field that failed parsing or bounds checks.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a structurally broken request (undecodable body).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeConflict marks an operation that lost a concurrency race or would
	// duplicate existing state.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks a structural invariant breach (capacity
	// exceeded, duplicate round payment). Always surfaced, never clamped,
	// and never rendered raw to end users.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeDataUnavailable marks a dependency snapshot that could not be
	// loaded. Callers must abort instead of assuming a safe default.
	CodeDataUnavailable Code = "data_unavailable"
	// CodeRiskBlocked marks an action rejected by a blocking risk finding.
	// Retryable only after the underlying condition changes.
	CodeRiskBlocked Code = "risk_blocked"
	// CodeExternalDependency marks a downstream failure (payment gateway,
	// notification sink) after the local mutation already committed.
	CodeExternalDependency Code = "external_dependency"
	// CodeInternal marks everything else; details stay out of responses.
	CodeInternal Code = "internal"
)

// Error is a coded error with an operator-facing message.
type Error struct {
	code    Code
	message string
	cause   error
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// yields a plain coded error so call sites don't need to branch.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{code: code, message: message, cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Message returns the operator-facing message without the cause chain.
func (e *Error) Message() string { return e.message }

// CodeOf returns the Error's code.
func (e *Error) CodeOf() Code { return e.code }

// CodeFor extracts the code from an error chain, defaulting to CodeInternal
// for uncoded errors and the empty code for nil.
func CodeFor(err error) Code {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.code
	}
	return CodeInternal
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeFor(err) == code
}

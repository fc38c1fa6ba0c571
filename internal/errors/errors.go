// Package errors provides the coded failure taxonomy shared by the Baby Buddy client.
//
// Usage:
//
//	// In the client - return typed errors
//	if resp.StatusCode == http.StatusNotFound {
//	    return errors.NotFoundStatus(resp.StatusCode, body)
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrNotFound) {
//	    return nil // already gone
//	}
//
//	// Or use the Code directly for switch statements
//	var failure *errors.Error
//	if errors.As(err, &failure) {
//	    switch failure.Code {
//	    case errors.CodeTransport:
//	        if failure.Retryable() {
//	            // back off and retry
//	        }
//	    case errors.CodeServer:
//	        log.Warn("server rejected request", "status", failure.Status)
//	    }
//	}
//
// A transport failure caused by the caller's own context being cancelled or
// running past its deadline keeps CodeTransport but is not Retryable.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable failure class.
type Code string

// Failure codes returned by the client.
const (
	CodeTransport  Code = "TRANSPORT"
	CodeServer     Code = "SERVER"
	CodeDecode     Code = "DECODE"
	CodeNotFound   Code = "NOT_FOUND"
	CodeValidation Code = "VALIDATION"
)

// Retryable reports whether a caller may reasonably retry a failure with this code.
// Only connectivity-level failures qualify.
func (c Code) Retryable() bool {
	return c == CodeTransport
}

// maxBodyInMessage caps how much of a server body is echoed in Error().
const maxBodyInMessage = 256

// Error is a coded failure with an optional HTTP status and response body.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`  // HTTP status for server and not-found failures
	Body    string `json:"body,omitempty"`    // raw response body, if any
	Details any    `json:"details,omitempty"` // per-field details for validation failures
	cause   error  // unexported, for wrapping

	abandoned bool // the caller's context ended the call
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Body != "" {
		body := e.Body
		if len(body) > maxBodyInMessage {
			body = body[:maxBodyInMessage] + "..."
		}
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Retryable reports whether the failure is worth retrying.
// Abandoned calls never are.
func (e *Error) Retryable() bool {
	return e.Code.Retryable() && !e.abandoned
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	c := *e
	c.Details = details
	return &c
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinel errors for use with errors.Is().
var (
	ErrTransport  = &Error{Code: CodeTransport, Message: "transport failure"}
	ErrServer     = &Error{Code: CodeServer, Message: "server failure"}
	ErrDecode     = &Error{Code: CodeDecode, Message: "decode failure"}
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
)

// Transport creates a transport failure wrapping the connectivity error.
func Transport(msg string, err error) *Error {
	return &Error{Code: CodeTransport, Message: msg, cause: err}
}

// Abandoned creates a transport failure for a call whose context was
// cancelled or ran past its deadline. It matches ErrTransport and the context
// error in err, but is not retryable.
func Abandoned(msg string, err error) *Error {
	return &Error{Code: CodeTransport, Message: msg, cause: err, abandoned: true}
}

// Server creates a server failure for a non-success response.
func Server(status int, body []byte) *Error {
	return &Error{
		Code:    CodeServer,
		Message: "server returned " + http.StatusText(status),
		Status:  status,
		Body:    string(body),
	}
}

// NotFoundStatus creates a not found failure from a 404 response.
func NotFoundStatus(status int, body []byte) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: "entry absent",
		Status:  status,
		Body:    string(body),
	}
}

// FromStatus maps a non-success HTTP response to a failure.
// 404 becomes a not found failure, everything else a server failure.
func FromStatus(status int, body []byte) *Error {
	if status == http.StatusNotFound {
		return NotFoundStatus(status, body)
	}
	return Server(status, body)
}

// Decode creates a decode failure.
func Decode(msg string, err error) *Error {
	return &Error{Code: CodeDecode, Message: msg, cause: err}
}

// Decodef creates a decode failure with formatted message.
func Decodef(format string, args ...any) *Error {
	return &Error{Code: CodeDecode, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Package errors is the coded error every layer returns and every handler renders
package errors

// import as perr

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable half of an error envelope
// values travel on the wire, so new codes go at the end
type ErrorCode uint16

const (
	// ErrorCodeUnknown is anything nobody classified
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is a handler panic the recoverer caught
	ErrorCodePanic

	// ErrorCodeUnavailable is a backend that may answer on retry
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is a rate limited caller
	ErrorCodeTooManyRequests

	// ErrorCodeConflict is a state clash other than a duplicate id
	ErrorCodeConflict

	// ErrorCodeUnauthorized is a missing or bad credential
	ErrorCodeUnauthorized

	// ErrorCodeForbidden is a known caller without the role
	ErrorCodeForbidden

	// ErrorCodeInvalidArgument is well formed input that makes no sense
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is input that failed a field rule
	ErrorCodeValidation

	// ErrorCodeJSON is a body that did not decode
	ErrorCodeJSON

	// ErrorCodeNotFound is a missing document, object or route
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey is an id or email already taken
	ErrorCodeDuplicateKey

	// ErrorCodeDB is a store failure
	ErrorCodeDB

	// ErrorCodeTooLarge is an upload over its limit
	ErrorCodeTooLarge
)

// HTTPStatusCode is the status a handler answers for c
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey, ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// ErrNotFound is the bare not found a store returns
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a caller facing message and optionally the offending field
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is what an envelope shows of an error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the input the error is about, if any
func (e *Error) Field() string { return e.field }

// ToWire drops the cause; only msg reaches the caller
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom renders any error; a foreign one is Unknown with its own text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the innermost cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf is the code of the outermost *Error in the chain, Unknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField returns a copy of err naming field; a foreign error comes back unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// New returns an error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap classifies orig; msg is what the caller sees
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with formatting
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error   { return Newf(ErrorCodeInvalidArgument, format, a...) }
func DuplicateKeyf(format string, a ...any) error { return Newf(ErrorCodeDuplicateKey, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Conflictf(format string, a ...any) error     { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func TooLargef(format string, a ...any) error     { return Newf(ErrorCodeTooLarge, format, a...) }

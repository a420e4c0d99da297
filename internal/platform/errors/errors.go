// Package errors is the project error type: a machine code, a client-safe
// message, the failing operation and an optional offending field.
// Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies failures. The numeric values are on the wire; append only
type ErrorCode uint16

// Error codes
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeTokenUnavailable
	ErrorCodeLoginFailed
	ErrorCodeProvisioningFailed
	ErrorCodeEditFailed
	ErrorCodeTemplate
)

// wiki-side failures all surface as 500 so API callers see one generic server error
var codeTable = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:            {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:              {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:        {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests:    {"rate_limited", http.StatusTooManyRequests},
	ErrorCodeConflict:           {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:       {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:          {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument:    {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:         {"validation", http.StatusBadRequest},
	ErrorCodeJSON:               {"json", http.StatusBadRequest},
	ErrorCodeNotFound:           {"not_found", http.StatusNotFound},
	ErrorCodeTokenUnavailable:   {"token_unavailable", http.StatusInternalServerError},
	ErrorCodeLoginFailed:        {"login_failed", http.StatusInternalServerError},
	ErrorCodeProvisioningFailed: {"credential_provisioning_failed", http.StatusInternalServerError},
	ErrorCodeEditFailed:         {"edit_failed", http.StatusInternalServerError},
	ErrorCodeTemplate:           {"template_error", http.StatusInternalServerError},
}

func (c ErrorCode) known() bool { return int(c) < len(codeTable) }

// String returns the stable snake_case name
func (c ErrorCode) String() string {
	if c.known() {
		return codeTable[c].name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// Status is the HTTP status the code maps to; unknown codes are 500
func (c ErrorCode) Status() int {
	if c.known() {
		return codeTable[c].status
	}
	return http.StatusInternalServerError
}

// Error carries a code, a message safe to show clients, and optionally
// the failing op, an offending field and the wrapped cause
type Error struct {
	code  ErrorCode
	msg   string
	op    string
	field string
	cause error
}

// Wire is the client-facing form; the cause is never included
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Op      string    `json:"op,omitempty"`
}

// Error renders "op: msg: cause", omitting empty parts. The cause is left out
// when msg already ends with the text of the innermost error
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := e.msg
	if e.op != "" {
		s = e.op + ": " + s
	}
	if e.cause != nil && !strings.HasSuffix(e.msg, Root(e.cause).Error()) {
		s += ": " + e.cause.Error()
	}
	return s
}

// Unwrap returns the cause
func (e *Error) Unwrap() error { return e.cause }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Message returns the message alone
func (e *Error) Message() string { return e.msg }

// Field returns the offending input field, if any
func (e *Error) Field() string { return e.field }

// Op returns the failing operation, if set
func (e *Error) Op() string { return e.op }

// ToWire drops the cause, which may hold remote response text
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field, Op: e.op} }

// WireFrom converts any error; foreign errors become ErrorCodeUnknown with their text
func WireFrom(err error) Wire {
	switch e, ok := As(err); {
	case err == nil:
		return Wire{}
	case ok:
		return e.ToWire()
	default:
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns err's code, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the HTTP status for err
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// Root returns the innermost cause
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// WithField returns a copy of err naming the offending field; foreign errors pass through
func WithField(err error, field string) error {
	return with(err, func(c *Error) { c.field = field })
}

// WithOp returns a copy of err labelled with op; foreign errors pass through
func WithOp(err error, op string) error {
	return with(err, func(c *Error) { c.op = op })
}

func with(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	set(&c)
	return &c
}

// New returns an *Error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap attaches code and msg to cause
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf is Wrap with a formatted message
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

// Op is Newf labelled with the failing operation
func Op(op string, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), op: op}
}

// WrapOp is Wrapf labelled with the failing operation
func WrapOp(cause error, op string, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), op: op, cause: cause}
}

// InvalidArgf returns an ErrorCodeInvalidArgument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf returns an ErrorCodeJSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns an ErrorCodePanic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unauthorizedf returns an ErrorCodeUnauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Unavailablef returns an ErrorCodeUnavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// TokenUnavailablef returns an ErrorCodeTokenUnavailable error
func TokenUnavailablef(format string, a ...any) error {
	return Newf(ErrorCodeTokenUnavailable, format, a...)
}

// Templatef returns an ErrorCodeTemplate error
func Templatef(format string, a ...any) error { return Newf(ErrorCodeTemplate, format, a...) }

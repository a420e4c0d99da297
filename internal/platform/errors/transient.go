package errors

// Transport helpers for classifying failures from remote HTTP dependencies

import (
	"context"
	stderrs "errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// temporary is implemented by adapter errors that know whether a retry may help
type temporary interface {
	Temporary() bool
}

// IsRetryable reports whether err represents a transient condition worth retrying.
// Caller cancellation is never retryable; deadline handling is left to the caller's context
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) {
		return false
	}

	// Our own codes first; adapters wrap remote failures with them
	if e, ok := As(err); ok {
		switch e.code {
		case ErrorCodeUnavailable, ErrorCodeTooManyRequests, ErrorCodeTokenUnavailable:
			return true
		case ErrorCodeLoginFailed, ErrorCodeProvisioningFailed, ErrorCodeTemplate,
			ErrorCodeValidation, ErrorCodeInvalidArgument, ErrorCodeJSON,
			ErrorCodeUnauthorized, ErrorCodeForbidden, ErrorCodeNotFound:
			return false
		}
	}

	var t temporary
	if stderrs.As(err, &t) {
		return t.Temporary()
	}

	var ne net.Error
	if stderrs.As(err, &ne) && ne.Timeout() {
		return true
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	if stderrs.Is(err, io.ErrUnexpectedEOF) ||
		stderrs.Is(err, syscall.ECONNRESET) ||
		stderrs.Is(err, syscall.ECONNREFUSED) ||
		stderrs.Is(err, syscall.EPIPE) {
		return true
	}
	var op *net.OpError
	if stderrs.As(err, &op) {
		return true
	}

	// Fallback: text emitted by net/http when the peer hangs up mid-exchange
	root := Root(err)
	s := strings.ToLower(root.Error())
	switch {
	case strings.Contains(s, "connection reset by peer"),
		strings.Contains(s, "server closed idle connection"),
		strings.Contains(s, "unexpected eof"),
		strings.Contains(s, "tls handshake timeout"):
		return true
	default:
		return false
	}
}

// FromStatus maps a remote HTTP status to an ErrorCode
func FromStatus(status int) ErrorCode {
	switch {
	case status == 429:
		return ErrorCodeTooManyRequests
	case status >= 500:
		return ErrorCodeUnavailable
	case status == 401:
		return ErrorCodeUnauthorized
	case status == 403:
		return ErrorCodeForbidden
	case status == 404:
		return ErrorCodeNotFound
	case status == 409:
		return ErrorCodeConflict
	case status >= 400:
		return ErrorCodeInvalidArgument
	default:
		return ErrorCodeUnknown
	}
}

package mediawiki

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	perr "wikipub/internal/platform/errors"
)

// Remote error codes that carry retry meaning
const (
	CodeRateLimited = "ratelimited"
	CodeMaxLag      = "maxlag"
	CodeBadToken    = "badtoken"
	CodeReadOnly    = "readonly"
)

// StatusError wraps non-2xx HTTP responses from api.php
type StatusError struct {
	Status     int
	Body       string
	RetryAfter time.Duration
}

// Error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Status)
}

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// Temporary reports 429 and 5xx as worth retrying
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// RemoteError is the api.php error envelope {error:{code,info}}
type RemoteError struct {
	Code   string `json:"code"`
	Info   string `json:"info"`
	Action string `json:"-"`
}

// Error interface
func (e *RemoteError) Error() string {
	if e.Info == "" {
		return e.Code
	}
	return e.Code + ": " + e.Info
}

// Temporary reports throttling, replication lag, stale tokens and read-only windows as retryable
func (e *RemoteError) Temporary() bool {
	switch e.Code {
	case CodeRateLimited, CodeMaxLag, CodeBadToken, CodeReadOnly:
		return true
	}
	return strings.HasPrefix(e.Code, "internal_api_error")
}

// code maps a remote error code onto the project error codes
func (e *RemoteError) code() perr.ErrorCode {
	switch {
	case e.Code == CodeRateLimited || e.Code == CodeMaxLag:
		return perr.ErrorCodeTooManyRequests
	case e.Temporary():
		return perr.ErrorCodeUnavailable
	case e.Code == "permissiondenied" || e.Code == "protectedpage" || e.Code == "blocked":
		return perr.ErrorCodeForbidden
	case e.Code == "editconflict":
		return perr.ErrorCodeConflict
	default:
		return perr.ErrorCodeUnknown
	}
}

// parseRetryAfter accepts delta-seconds or an HTTP date; zero when absent or unparsable
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if sec, err := strconv.Atoi(v); err == nil {
		if sec <= 0 {
			return 0
		}
		return time.Duration(sec) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}

// RetryAfter returns the server's requested wait carried by err, if any
func RetryAfter(err error) (time.Duration, bool) {
	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > 0 {
		return se.RetryAfter, true
	}
	return 0, false
}

// IsRateLimited reports whether err is an HTTP 429 or a remote throttling code
func IsRateLimited(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Code == CodeRateLimited || re.Code == CodeMaxLag
	}
	return false
}

// IsTransient reports whether err is a 5xx response
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= 500
	}
	return false
}

// IsBadToken reports whether the server rejected the token we sent
func IsBadToken(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == CodeBadToken
}

// RemoteMessage extracts the server's human text from err, falling back to err.Error()
func RemoteMessage(err error) string {
	if err == nil {
		return ""
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}

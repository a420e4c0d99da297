// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"net/http"
	"strings"

	perrs "wikipub/internal/platform/errors"
)

// TokenFunc checks a bearer token and names the caller it belongs to
type TokenFunc func(token string) (caller string, err error)

// Port implements middleware.AuthPort over the Authorization header
type Port struct {
	check TokenFunc
}

// NewPortFunc builds a Port from a token check
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{check: fn}
}

// Parse reads "Bearer <token>" (scheme is case insensitive) and hands the token to the check
// Any failure, including a missing check, is reported as unauthorized
func (p *Port) Parse(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const scheme = "bearer"
	if len(s) < len(scheme) || !strings.EqualFold(s[:len(scheme)], scheme) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	tok := strings.TrimSpace(s[len(scheme):])
	if tok == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.check == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	caller, err := p.check(tok)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return caller, nil
}

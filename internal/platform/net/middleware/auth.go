package middleware

import (
	"net/http"

	pnet "wikipub/internal/platform/net"
)

// AuthPort resolves the caller behind a request
type AuthPort interface {
	Parse(r *http.Request) (caller string, err error)
}

// Auth rejects requests the port cannot resolve and stores the caller on the context
// A nil port lets every request through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := p.Parse(r)
			if err != nil {
				body := pnet.Failure(err, pnet.RequestID(r.Context()))
				write(w, body.StatusCode, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithUser(r.Context(), caller)))
		})
	}
}

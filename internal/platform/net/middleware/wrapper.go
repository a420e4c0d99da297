// Package middleware adapts chi and go-chi/cors middleware so callers never import chi
package middleware

import (
	"net/http"
	"time"

	pstrings "wikipub/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the net/http middleware shape every constructor here returns
type Middleware = func(http.Handler) http.Handler

// RequestID reuses an inbound X-Request-ID or mints one, and puts it on the context
func RequestID() Middleware { return chimw.RequestID }

// RealIP trusts X-Real-IP / X-Forwarded-For for RemoteAddr
func RealIP() Middleware { return chimw.RealIP }

// Timeout gives each request a context deadline of d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache marks responses uncacheable
func NoCache() Middleware { return chimw.NoCache }

// Compress gzips/deflates responses for clients that accept it, at the given flate level
func Compress(level int) Middleware { return chimw.NewCompressor(level).Handler }

// RedirectSlashes sends /x/ to /x with a redirect
func RedirectSlashes() Middleware { return chimw.RedirectSlashes }

// StripSlashes routes /x/ as /x without a redirect
func StripSlashes() Middleware { return chimw.StripSlashes }

// AllowContentType answers 415 for a body of any type not listed. Bodyless requests pass
func AllowContentType(ct ...string) Middleware { return chimw.AllowContentType(ct...) }

// Throttle lets limit requests run, parks up to backlog more for wait, and answers 429 after that
func Throttle(limit, backlog int, wait time.Duration) Middleware {
	return chimw.ThrottleBacklog(limit, backlog, wait)
}

// Heartbeat short-circuits GET/HEAD on path with a plain 200
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// CORSOptions is the subset of go-chi/cors options the API sets
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
)

// CORS applies o, using the API's methods and headers where o leaves them empty
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, corsMethods),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, corsHeaders),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

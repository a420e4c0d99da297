package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	pnet "wikipub/internal/platform/net"
)

// RecoverJSON answers a panic with the 500 error envelope and logs the stack
// http.ErrAbortHandler is re-raised so net/http can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Str("request_id", reqID).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("handler panicked")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			body := pnet.Failure(perr.PanicErrf("internal error"), reqID)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(body.StatusCode)
			_ = json.NewEncoder(w).Encode(body)
		}()
		next.ServeHTTP(w, r)
	})
}

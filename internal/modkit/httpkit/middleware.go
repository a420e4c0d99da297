package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "wikipub/internal/platform/net/http"
	"wikipub/internal/platform/net/middleware"
)

// CommonStack is the middleware every /api/v1 route runs through
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 5 * time.Second}),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		// a publish may wait out several backoffs; keep the wiki client timeout below this
		middleware.Timeout(2 * time.Minute),
	}
}

// Auth is middleware.Auth answering rejections with the JSON envelope
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

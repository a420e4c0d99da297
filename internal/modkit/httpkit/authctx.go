package httpkit

import (
	"net/http"

	pnet "wikipub/internal/platform/net"
)

// Anonymous is the caller reported for requests on open routes
const Anonymous = "anonymous"

// Caller returns the caller Auth stored on the request, or Anonymous
func Caller(r *http.Request) string {
	if id := pnet.UserID(r.Context()); id != "" {
		return id
	}
	return Anonymous
}

package httpkit

import "wikipub/internal/platform/net/middleware"

// Protected mounts the routes registered by fn in a group that requires p to accept the caller
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}

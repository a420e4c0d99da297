package httpkit

import "net/http"

// APIV1 is the prefix public modules mount under
const APIV1 = "/api/v1"

// MountUnder mounts a subrouter at prefix, applies mw, then lets mount register routes on it
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPIV1 is MountUnder at APIV1
//
//	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
//		wikiAPI.MountRoutes(api)
//	})
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, APIV1, mw, mount)
}

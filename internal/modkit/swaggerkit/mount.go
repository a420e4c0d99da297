// Package swaggerkit serves the OpenAPI document and Swagger UI under /api/docs
package swaggerkit

import (
	"net/http"

	phttp "wikipub/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	docsRoot = "/api/docs"
	docJSON  = docsRoot + "/doc.json"
)

// Mount registers the docs routes on r; a disabled kit mounts nothing
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(docsRoot, http.RedirectHandler(docsRoot+"/", http.StatusPermanentRedirect).ServeHTTP)
	r.Get(docJSON, serveDocJSON())
	r.Handle(docsRoot+"/*", httpSwagger.Handler(httpSwagger.InstanceName("api"), httpSwagger.URL(docJSON)))
}

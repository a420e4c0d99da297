// Package swaggerkit provides OpenAPI swagger UI integration for HTTP services
package swaggerkit

import "net/http"

// docReader returns the served OpenAPI document
var docReader = func() string {
	return `{"openapi":"3.0.3","info":{"title":"wikipub API","version":"v1"},` +
		`"servers":[{"url":"/api/v1"}],` +
		`"paths":{"/wiki/publish":{"post":{"summary":"Render content and stage it on the account sandbox page"}},` +
		`"/wiki/copy":{"post":{"summary":"Copy the latest revision of one page onto another"}}}}`
}

// serveDocJSON serves the OpenAPI document for the UI
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}

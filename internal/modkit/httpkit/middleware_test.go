package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func wrap(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_HeartbeatAndRequestID(t *testing.T) {
	var seenID string
	root := wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusAccepted)
	}), CommonStack())

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/health = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wiki/publish", nil)
	req.Header.Set("X-Request-ID", "op-7")
	rr = httptest.NewRecorder()
	root.ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("handler status = %d", rr.Code)
	}
	if seenID != "op-7" {
		t.Fatalf("request id not propagated: %q", seenID)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatal("expected no-cache headers")
	}
}

func TestCommonStack_PanicBecomesJSON500(t *testing.T) {
	root := wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template exploded")
	}), CommonStack())

	rr := httptest.NewRecorder()
	root.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/wiki/publish", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var env map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("body is not JSON: %v (%s)", err, rr.Body.String())
	}
}

type stubPort struct{ err error }

func (p stubPort) Parse(*http.Request) (string, error) { return "api-token", p.err }

func TestAuth_WritesEnvelopeOnReject(t *testing.T) {
	h := Auth(stubPort{err: errors.New("nope")})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/wiki/copy", nil))
	if rr.Code == http.StatusOK {
		t.Fatalf("expected rejection, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct == "" {
		t.Fatal("expected JSON content type")
	}
}

// Package http provides helpers for writing JSON responses with a consistent envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "wikipub/internal/platform/net"
)

// Envelope is the response body of every API endpoint
type Envelope = pnet.Envelope

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers hand back
// A Body holding an error is rendered as an error envelope with the mapped status;
// Detail then rides along as the envelope data
type Response struct {
	Status int
	Body   any
	Detail any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}

	reqID := pnet.RequestID(r.Context())
	var env Envelope
	if err, ok := resp.Body.(error); ok && err != nil {
		env = pnet.Failure(err, reqID)
		env.Data = resp.Detail
	} else {
		env = pnet.Success(resp.Status, resp.Body, reqID)
	}
	JSON(w, env.StatusCode, env)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns a response that maps err to its status and envelope
func Error(err error) Response { return Response{Body: err} }

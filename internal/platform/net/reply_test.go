package net_test

import (
	"errors"
	"net/http"
	"testing"

	perr "wikipub/internal/platform/errors"
	pnet "wikipub/internal/platform/net"
)

func TestSuccess(t *testing.T) {
	env := pnet.Success(0, map[string]int{"revid": 41}, "req-1")
	if env.StatusCode != http.StatusOK || env.Status != "OK" || env.RequestID != "req-1" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Data.(map[string]int)["revid"] != 41 {
		t.Fatalf("data = %+v", env.Data)
	}
	if env := pnet.Success(http.StatusAccepted, nil, ""); env.Status != "Accepted" {
		t.Fatalf("status text = %q", env.Status)
	}
}

func TestFailure(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"rate limited", perr.New(perr.ErrorCodeTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"wrapped cause hidden", perr.Wrap(errors.New("dial tcp: refused"), perr.ErrorCodeUnavailable, "wiki unreachable"),
			http.StatusServiceUnavailable, "wiki unreachable"},
		{"login rejected", perr.Op("login", perr.ErrorCodeLoginFailed, "rejected: WrongPass"),
			http.StatusInternalServerError, "rejected: WrongPass"},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := pnet.Failure(c.err, "req-5")
			if env.StatusCode != c.wantCode || env.Error != c.wantMsg || env.RequestID != "req-5" {
				t.Fatalf("envelope = %+v", env)
			}
			if env.Data != nil {
				t.Fatalf("failure carries data: %+v", env.Data)
			}
		})
	}
}

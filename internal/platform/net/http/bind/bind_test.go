package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "wikipub/internal/platform/errors"
)

type publishBody struct {
	Title   string `json:"title"             validate:"required,min=2,max=20,wikititle"`
	Summary string `json:"summary,omitempty" validate:"omitempty,max=10"`
	Skipped string `json:"-"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/wiki/publish", strings.NewReader(body))
}

func TestParseJSON_Success(t *testing.T) {
	got, err := ParseJSON[publishBody](post(`{"title":"Acme Widget","summary":"first"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Acme Widget" || got.Summary != "first" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_DecodeFailures(t *testing.T) {
	cases := map[string]*http.Request{
		"no body":       httptest.NewRequest(http.MethodPost, "/", http.NoBody),
		"nil body":      {Method: http.MethodPost},
		"malformed":     post(`{"title":`),
		"unknown field": post(`{"title":"Acme","bogus":1}`),
		"trailing data": post(`{"title":"Acme"} {"title":"Other"}`),
		"wrong type":    post(`{"title":42}`),
		"array not obj": post(`[]`),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON[publishBody](req)
			if !perr.IsCode(err, perr.ErrorCodeJSON) {
				t.Fatalf("want json error, got %v", err)
			}
		})
	}
}

func TestParseJSON_ValidationMessages(t *testing.T) {
	cases := []struct {
		body, field, msg string
	}{
		{`{"title":""}`, "title", "title is a required field"},
		{`{"title":"A"}`, "title", "title must be at least 2"},
		{`{"title":"Acme","summary":"far too long"}`, "summary", "summary must be at most 10"},
		{`{"title":"Acme#History"}`, "title", "title contains a character not allowed in page titles"},
	}
	for _, c := range cases {
		_, err := ParseJSON[publishBody](post(c.body))
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("%s: want validation error, got %v", c.body, err)
		}
		if e.Field() != c.field || e.Message() != c.msg {
			t.Fatalf("%s: field=%q msg=%q", c.body, e.Field(), e.Message())
		}
	}
}

func TestParseJSON_BodyLimit(t *testing.T) {
	big := `{"title":"` + strings.Repeat("a", MaxBody) + `"}`
	_, err := ParseJSON[publishBody](post(big))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("oversized body should fail to decode, got %v", err)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	if err := Validate(42); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("non-struct should report an internal validation error, got %v", err)
	}
}

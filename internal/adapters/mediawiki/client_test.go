package mediawiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	perr "wikipub/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{APIURL: srv.URL, RatePerSec: -1, Timeout: 2 * time.Second}), srv
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestTokens_SendsDefaultHeadersAndParams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "PsiAdirondackBot")
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "tokens", q.Get("meta"))
		assert.Equal(t, "login", q.Get("type"))
		assert.Equal(t, "json", q.Get("format"))
		writeJSON(w, `{"batchcomplete":true,"query":{"tokens":{"logintoken":"abc+\\"}}}`)
	})

	s, err := c.NewSession()
	require.NoError(t, err)
	tok, err := s.Tokens(context.Background(), TokenTypeLogin)
	require.NoError(t, err)
	assert.Equal(t, `abc+\`, tok.LoginToken)
	assert.Empty(t, tok.CSRFToken)
}

func TestTokens_MissingQueryYieldsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"batchcomplete":true}`)
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	tok, err := s.Tokens(context.Background(), TokenTypeCSRF)
	require.NoError(t, err)
	assert.Equal(t, Tokens{}, tok)
}

func TestLogin_PostsFormAndParsesReasonForms(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "login", r.PostForm.Get("action"))
		assert.Equal(t, "Alice", r.PostForm.Get("lgname"))
		assert.Equal(t, "pw", r.PostForm.Get("lgpassword"))
		assert.Equal(t, "tok", r.PostForm.Get("lgtoken"))
		switch calls.Add(1) {
		case 1:
			writeJSON(w, `{"login":{"result":"Failed","reason":{"code":"wrongpassword","text":"Incorrect password"}}}`)
		case 2:
			writeJSON(w, `{"login":{"result":"Failed","code":"WrongPass","reason":"Incorrect password entered."}}`)
		default:
			writeJSON(w, `{"login":{"result":"Success","lgusername":"Alice","lguserid":7}}`)
		}
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	p := LoginParams{Name: "Alice", Password: "pw", Token: "tok"}

	r1, err := s.Login(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Failed", r1.Result)
	assert.Equal(t, "wrongpassword", r1.FailureCode())
	assert.Equal(t, "Incorrect password", r1.Reason.Text)

	r2, err := s.Login(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "WrongPass", r2.FailureCode())
	assert.Equal(t, "Incorrect password entered.", r2.Reason.Text)

	r3, err := s.Login(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Success", r3.Result)
	assert.Equal(t, int64(7), r3.UserID)
}

func TestSession_CookiesStayWithinSession(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.SetCookie(w, &http.Cookie{Name: "wikisession", Value: "s1", Path: "/"})
			writeJSON(w, `{"login":{"result":"Success"}}`)
			return
		}
		if ck, err := r.Cookie("wikisession"); err == nil && ck.Value == "s1" {
			writeJSON(w, `{"query":{"tokens":{"csrftoken":"authed+\\"}}}`)
			return
		}
		writeJSON(w, `{"query":{"tokens":{"csrftoken":"+\\"}}}`)
	})

	s1, err := c.NewSession()
	require.NoError(t, err)
	s2, err := c.NewSession()
	require.NoError(t, err)
	assert.NotEqual(t, s1.ID(), s2.ID())

	_, err = s1.Login(context.Background(), LoginParams{Name: "a", Password: "b", Token: "c"})
	require.NoError(t, err)

	t1, err := s1.Tokens(context.Background(), TokenTypeCSRF)
	require.NoError(t, err)
	assert.Equal(t, `authed+\`, t1.CSRFToken)

	t2, err := s2.Tokens(context.Background(), TokenTypeCSRF)
	require.NoError(t, err)
	assert.Equal(t, `+\`, t2.CSRFToken)
}

func TestEdit_FormAndReply(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "edit", r.PostForm.Get("action"))
		assert.Equal(t, "User:Alice/sandbox", r.PostForm.Get("title"))
		assert.Equal(t, "== Hi ==", r.PostForm.Get("text"))
		assert.Equal(t, "sum", r.PostForm.Get("summary"))
		assert.Equal(t, "csrf", r.PostForm.Get("token"))
		assert.Equal(t, "1", r.PostForm.Get("bot"))
		writeJSON(w, `{"edit":{"result":"Success","pageid":1,"title":"User:Alice/sandbox","oldrevid":10,"newrevid":11}}`)
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	rep, err := s.Edit(context.Background(), EditParams{
		Title: "User:Alice/sandbox", Text: "== Hi ==", Summary: "sum", Token: "csrf", Bot: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Success", rep.Result)
	assert.Equal(t, int64(11), rep.NewRevID)
}

func TestCreateBotPassword_Form(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "botpasswords", r.PostForm.Get("action"))
		assert.Equal(t, "PsiAdirondackBot", r.PostForm.Get("botpasswordname"))
		assert.Equal(t, "editpage,createpage,writeapi", r.PostForm.Get("grants"))
		assert.Equal(t, "audit", r.PostForm.Get("reason"))
		writeJSON(w, `{"botpasswords":{"status":"success","password":"q1w2e3"}}`)
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	rep, err := s.CreateBotPassword(context.Background(), BotPasswordParams{
		Name:   "PsiAdirondackBot",
		Grants: []string{"editpage", "createpage", "writeapi"},
		Reason: "audit",
		Token:  "csrf",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", rep.Status)
	assert.Equal(t, "q1w2e3", rep.Password)
}

func TestCall_RateLimitedStatusCarriesRetryAfter(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	_, err = s.Edit(context.Background(), EditParams{Title: "T", Text: "x", Token: "t"})
	require.Error(t, err)

	assert.True(t, IsRateLimited(err))
	assert.True(t, perr.IsCode(err, perr.ErrorCodeTooManyRequests))
	assert.True(t, perr.IsRetryable(err))
	wait, ok := RetryAfter(err)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, wait)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "slow down", se.Body)
}

func TestCall_ServerErrorIsTransient(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	_, err = s.Tokens(context.Background(), TokenTypeCSRF)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.True(t, perr.IsRetryable(err))
	_, ok := RetryAfter(err)
	assert.False(t, ok)
}

func TestCall_ErrorEnvelope(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		code      perr.ErrorCode
		retryable bool
		badToken  bool
	}{
		{"badtoken", `{"error":{"code":"badtoken","info":"Invalid CSRF token."}}`, perr.ErrorCodeUnavailable, true, true},
		{"ratelimited", `{"error":{"code":"ratelimited","info":"slow"}}`, perr.ErrorCodeTooManyRequests, true, false},
		{"maxlag", `{"error":{"code":"maxlag","info":"lagged"}}`, perr.ErrorCodeTooManyRequests, true, false},
		{"protected", `{"error":{"code":"protectedpage","info":"This page has been protected"}}`, perr.ErrorCodeForbidden, false, false},
		{"spam", `{"error":{"code":"spamblacklist","info":"blocked url"}}`, perr.ErrorCodeUnknown, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.body)
			})
			s, err := c.NewSession()
			require.NoError(t, err)
			_, err = s.Edit(context.Background(), EditParams{Title: "T", Text: "x", Token: "t"})
			require.Error(t, err)

			assert.Equal(t, tc.code, perr.CodeOf(err))
			assert.Equal(t, tc.retryable, perr.IsRetryable(err))
			assert.Equal(t, tc.badToken, IsBadToken(err))

			var re *RemoteError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "edit", re.Action)
			assert.Equal(t, re.Error(), RemoteMessage(err))
		})
	}
}

func TestCall_MalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `<html>oops</html>`)
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	_, err = s.Login(context.Background(), LoginParams{})
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeJSON))
	assert.False(t, perr.IsRetryable(err))
}

func TestCall_MissingObjectIsShapeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"warnings":{}}`)
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	_, err = s.Edit(context.Background(), EditParams{})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeJSON))
	_, err = s.CreateBotPassword(context.Background(), BotPasswordParams{})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeJSON))
}

func TestCall_CanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{}`)
	})
	s, err := c.NewSession()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Tokens(ctx, TokenTypeLogin)
	require.Error(t, err)
	assert.False(t, perr.IsRetryable(err))
}

func TestRevision(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "revisions", q.Get("prop"))
		assert.Equal(t, "main", q.Get("rvslots"))
		switch q.Get("titles") {
		case "Source":
			writeJSON(w, `{"query":{"pages":[{"pageid":3,"title":"Source","revisions":[{"revid":99,"slots":{"main":{"contentmodel":"wikitext","content":"Hello"}}}]}]}}`)
		default:
			writeJSON(w, `{"query":{"pages":[{"title":"Nope","missing":true}]}}`)
		}
	})
	s, err := c.NewSession()
	require.NoError(t, err)

	rev, err := s.Revision(context.Background(), "Source")
	require.NoError(t, err)
	assert.False(t, rev.Missing)
	assert.Equal(t, int64(99), rev.RevID)
	assert.Equal(t, "Hello", rev.Content)

	rev, err = s.Revision(context.Background(), "Nope")
	require.NoError(t, err)
	assert.True(t, rev.Missing)
	assert.Equal(t, "Nope", rev.Title)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("0", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
	assert.Equal(t, 7*time.Second, parseRetryAfter(" 7 ", now))
	date := now.Add(90 * time.Second).Format(http.TimeFormat)
	assert.Equal(t, 90*time.Second, parseRetryAfter(date, now))
	past := now.Add(-time.Minute).Format(http.TimeFormat)
	assert.Equal(t, time.Duration(0), parseRetryAfter(past, now))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t, apiURLDefault, c.APIURL())
	assert.Equal(t, defaultTimeout, c.opts.Timeout)
	assert.Equal(t, defaultBurst, c.opts.Burst)
	assert.InDelta(t, defaultRPS, float64(c.limiter.Limit()), 0.001)
}

func TestPing(t *testing.T) {
	var fail atomic.Bool
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "siteinfo", r.URL.Query().Get("meta"))
		assert.Empty(t, r.Cookies())
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, `{"batchcomplete":true,"query":{"general":{"sitename":"Wikipedia"}}}`)
	})

	require.NoError(t, c.Ping(context.Background()))

	fail.Store(true)
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

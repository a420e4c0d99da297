package mediawiki

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	perr "wikipub/internal/platform/errors"
)

// Token types accepted by meta=tokens
const (
	TokenTypeLogin = "login"
	TokenTypeCSRF  = "csrf"
)

// Session is one cookie-backed conversation with the wiki
type Session struct {
	c    *Client
	http *http.Client
	id   int64
}

// ID returns a process-unique session number for log correlation
func (s *Session) ID() int64 { return s.id }

// Tokens fetches tokens of the given type; every call is a live round trip
func (s *Session) Tokens(ctx context.Context, typ string) (Tokens, error) {
	q := url.Values{"meta": {"tokens"}}
	if typ != "" {
		q.Set("type", typ)
	}
	var out tokensResp
	if err := s.c.call(ctx, s.http, s.id, http.MethodGet, "query", q, &out); err != nil {
		return Tokens{}, err
	}
	if out.Query == nil || out.Query.Tokens == nil {
		return Tokens{}, nil
	}
	return *out.Query.Tokens, nil
}

// Login posts action=login; a "Failed" result is a reply, not an error
func (s *Session) Login(ctx context.Context, p LoginParams) (LoginReply, error) {
	form := url.Values{
		"lgname":     {p.Name},
		"lgpassword": {p.Password},
		"lgtoken":    {p.Token},
	}
	var out loginResp
	if err := s.c.call(ctx, s.http, s.id, http.MethodPost, "login", form, &out); err != nil {
		return LoginReply{}, err
	}
	if out.Login == nil {
		return LoginReply{}, perr.Newf(perr.ErrorCodeJSON, "mediawiki login response missing login object")
	}
	return *out.Login, nil
}

// CreateBotPassword posts action=botpasswords to mint a scoped credential
func (s *Session) CreateBotPassword(ctx context.Context, p BotPasswordParams) (BotPasswordReply, error) {
	form := url.Values{
		"botpasswordname": {p.Name},
		"grants":          {strings.Join(p.Grants, ",")},
		"reason":          {p.Reason},
		"token":           {p.Token},
	}
	var out botPasswordResp
	if err := s.c.call(ctx, s.http, s.id, http.MethodPost, "botpasswords", form, &out); err != nil {
		return BotPasswordReply{}, err
	}
	if out.BotPasswords == nil {
		return BotPasswordReply{}, perr.Newf(perr.ErrorCodeJSON, "mediawiki botpasswords response missing botpasswords object")
	}
	return *out.BotPasswords, nil
}

// Edit posts action=edit; a non-Success result is returned as a reply for the caller to judge
func (s *Session) Edit(ctx context.Context, p EditParams) (EditReply, error) {
	form := url.Values{
		"title":   {p.Title},
		"text":    {p.Text},
		"summary": {p.Summary},
		"token":   {p.Token},
	}
	if p.Bot {
		form.Set("bot", "1")
	}
	var out editResp
	if err := s.c.call(ctx, s.http, s.id, http.MethodPost, "edit", form, &out); err != nil {
		return EditReply{}, err
	}
	if out.Edit == nil {
		return EditReply{}, perr.Newf(perr.ErrorCodeJSON, "mediawiki edit response missing edit object")
	}
	return *out.Edit, nil
}

// Revision reads the latest main-slot content of title
// A missing page is reported through Revision.Missing, not as an error
func (s *Session) Revision(ctx context.Context, title string) (Revision, error) {
	q := url.Values{
		"prop":    {"revisions"},
		"titles":  {title},
		"rvslots": {"main"},
		"rvprop":  {"content|ids"},
	}
	var out revisionsResp
	if err := s.c.call(ctx, s.http, s.id, http.MethodGet, "query", q, &out); err != nil {
		return Revision{}, err
	}
	if out.Query == nil || len(out.Query.Pages) == 0 {
		return Revision{Title: title, Missing: true}, nil
	}
	pg := out.Query.Pages[0]
	rev := Revision{Title: pg.Title, Missing: pg.Missing || pg.Invalid}
	if rev.Title == "" {
		rev.Title = title
	}
	if len(pg.Revisions) == 0 {
		rev.Missing = true
		return rev, nil
	}
	rev.RevID = pg.Revisions[0].RevID
	rev.Content = pg.Revisions[0].Slots.Main.Content
	return rev, nil
}

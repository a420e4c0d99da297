package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	mw "wikipub/internal/adapters/mediawiki"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/services/wiki/domain"
)

// fakeSession scripts wiki replies per call and records what was asked
type fakeSession struct {
	mu sync.Mutex

	tokenFetches map[string]int
	calls        []string

	tokensFn   func(typ string, n int) (mw.Tokens, error)
	loginFn    func(p mw.LoginParams) (mw.LoginReply, error)
	botFn      func(p mw.BotPasswordParams) (mw.BotPasswordReply, error)
	editFn     func(p mw.EditParams, n int) (mw.EditReply, error)
	revisionFn func(title string) (mw.Revision, error)

	edits []mw.EditParams
}

func newFakeSession() *fakeSession {
	return &fakeSession{tokenFetches: map[string]int{}}
}

func (f *fakeSession) record(c string) {
	f.calls = append(f.calls, c)
}

func (f *fakeSession) Tokens(_ context.Context, typ string) (mw.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenFetches[typ]++
	n := f.tokenFetches[typ]
	f.record("tokens:" + typ)
	if f.tokensFn != nil {
		return f.tokensFn(typ, n)
	}
	if typ == mw.TokenTypeLogin {
		return mw.Tokens{LoginToken: fmt.Sprintf("lt-%d", n)}, nil
	}
	return mw.Tokens{CSRFToken: fmt.Sprintf("csrf-%d", n)}, nil
}

func (f *fakeSession) Login(_ context.Context, p mw.LoginParams) (mw.LoginReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("login:" + p.Name)
	if f.loginFn != nil {
		return f.loginFn(p)
	}
	return mw.LoginReply{Result: "Success", UserName: p.Name}, nil
}

func (f *fakeSession) CreateBotPassword(_ context.Context, p mw.BotPasswordParams) (mw.BotPasswordReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("botpasswords:" + p.Name)
	if f.botFn != nil {
		return f.botFn(p)
	}
	return mw.BotPasswordReply{Status: "success", Password: "generated-secret"}, nil
}

func (f *fakeSession) Edit(_ context.Context, p mw.EditParams) (mw.EditReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, p)
	f.record("edit:" + p.Title)
	if f.editFn != nil {
		return f.editFn(p, len(f.edits))
	}
	return mw.EditReply{Result: "Success", Title: p.Title, NewRevID: 12345}, nil
}

func (f *fakeSession) Revision(_ context.Context, title string) (mw.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("revision:" + title)
	if f.revisionFn != nil {
		return f.revisionFn(title)
	}
	return mw.Revision{Title: title, RevID: 99, Content: "Body of " + title}, nil
}

func (f *fakeSession) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeSession) writeTokenFetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenFetches[mw.TokenTypeCSRF]
}

// factory hands out s and counts how many sessions were opened
func factory(s *fakeSession, opened *int) domain.SessionFactory {
	return func() (domain.Session, error) {
		if opened != nil {
			*opened++
		}
		return s, nil
	}
}

// wrongPass is the reply a wiki sends when main-account login is refused
func wrongPass() mw.LoginReply {
	return mw.LoginReply{
		Result: "Failed",
		Reason: mw.LoginReason{Code: "WrongPass", Text: "Incorrect username or password entered."},
	}
}

// status builds the error the client returns for a non-2xx reply
func status(code int, retryAfter time.Duration) error {
	se := &mw.StatusError{Status: code, RetryAfter: retryAfter}
	return perr.Wrapf(se, perr.FromStatus(code), "mediawiki edit http %d", code)
}

// remote builds the error the client returns for an api.php error envelope
func remote(code perr.ErrorCode, wikiCode, info string) error {
	re := &mw.RemoteError{Code: wikiCode, Info: info, Action: "edit"}
	return perr.Wrap(re, code, "mediawiki edit rejected")
}

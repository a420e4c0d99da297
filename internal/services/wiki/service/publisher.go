package service

import (
	"context"
	"errors"
	"time"

	mw "wikipub/internal/adapters/mediawiki"
	"wikipub/internal/core/wikitext"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	str "wikipub/internal/platform/strings"
	"wikipub/internal/services/wiki/domain"
)

// Publisher writes pages over an authenticated session
type Publisher struct {
	tokens   *TokenCache
	policy   RetryPolicy
	wikiBase string

	// seams
	sleep func(context.Context, time.Duration) error
}

// NewPublisher builds a Publisher. wikiBase is the article URL prefix used for PageURL
func NewPublisher(tokens *TokenCache, policy RetryPolicy, wikiBase string) *Publisher {
	if tokens == nil {
		tokens = NewTokenCache()
	}
	if policy.Backoff == nil {
		policy.Backoff = DefaultPolicy().Backoff
	}
	if policy.Classify == nil {
		policy.Classify = Classify
	}
	return &Publisher{tokens: tokens, policy: policy, wikiBase: wikiBase, sleep: sleepCtx}
}

// Publish writes req.Content to req.Title with maxRetries retries after the
// first attempt (negative means the policy default). A fresh WriteToken is
// fetched on every attempt. The only success exit is an edit result of Success
func (p *Publisher) Publish(ctx context.Context, s domain.Session, req domain.PublishRequest, maxRetries int) (domain.PublishResult, error) {
	log := logger.C(ctx)

	attempts := p.policy.MaxAttempts
	if maxRetries >= 0 {
		attempts = maxRetries + 1
	}
	if attempts < 1 {
		attempts = 1
	}

	var last error
	n := 0
	for n < attempts {
		n++
		reply, err := p.attempt(ctx, s, req)
		if err == nil {
			title := str.FirstNonBlank(reply.Title, req.Title)
			log.Info().
				Str("title", title).
				Int64("revision", reply.NewRevID).
				Bool("nochange", reply.NoChange).
				Int("attempt", n).
				Msg("page published")
			return domain.PublishResult{
				Success:     true,
				PageTitle:   title,
				RevisionID:  reply.NewRevID,
				PageURL:     wikitext.PageURL(p.wikiBase, title),
				Attempts:    n,
				OperationID: logger.OperationID(ctx),
			}, nil
		}
		last = err

		if ctx.Err() != nil || p.policy.classify(err) == Terminal || n == attempts {
			break
		}

		wait := p.policy.Delay(err, n)
		log.Warn().
			Err(err).
			Str("title", req.Title).
			Int("attempt", n).
			Int("max_attempts", attempts).
			Bool("rate_limited", mw.IsRateLimited(err)).
			Dur("wait", wait).
			Msg("edit failed, retrying")
		if serr := p.sleep(ctx, wait); serr != nil {
			last = serr
			break
		}
	}

	return domain.PublishResult{}, perr.WrapOp(last, "publish", perr.ErrorCodeEditFailed,
		"edit %q failed after %d attempt(s): %s", req.Title, n, lastMessage(last))
}

// attempt is one token fetch plus one edit
func (p *Publisher) attempt(ctx context.Context, s domain.Session, req domain.PublishRequest) (mw.EditReply, error) {
	wt, err := p.tokens.Fetch(ctx, s, domain.WriteToken)
	if err != nil {
		return mw.EditReply{}, err
	}
	reply, err := s.Edit(ctx, mw.EditParams{
		Title:   req.Title,
		Text:    req.Content,
		Summary: req.Summary,
		Token:   wt.Value,
		Bot:     true,
	})
	if err != nil {
		return mw.EditReply{}, err
	}
	if reply.Result != "Success" {
		// captcha, spam filter and abuse filter refusals land here; none are transient
		msg := str.FirstNonBlank(reply.Info, reply.Code, reply.Result, "no result")
		return mw.EditReply{}, perr.Op("edit", perr.ErrorCodeEditFailed, "edit result %s: %s", str.FirstNonBlank(reply.Result, "empty"), msg)
	}
	return reply, nil
}

// Copy reads the latest revision of req.From and writes it to req.To.
// Redirect pages are refused before any write
func (p *Publisher) Copy(ctx context.Context, s domain.Session, req domain.CopyRequest, maxRetries int) (domain.CopyResult, error) {
	rev, err := s.Revision(ctx, req.From)
	if err != nil {
		return domain.CopyResult{}, perr.WrapOp(err, "copy", perr.CodeOf(err), "read %q", req.From)
	}
	if rev.Missing {
		return domain.CopyResult{}, perr.WithField(perr.Op("copy", perr.ErrorCodeNotFound, "page %q has no revisions", req.From), "from")
	}
	if wikitext.IsRedirect(rev.Content) {
		return domain.CopyResult{}, perr.WithField(perr.Op("copy", perr.ErrorCodeInvalidArgument, "page %q is a redirect", req.From), "from")
	}

	res, err := p.Publish(ctx, s, domain.PublishRequest{Title: req.To, Content: rev.Content, Summary: req.Summary}, maxRetries)
	if err != nil {
		return domain.CopyResult{}, err
	}
	return domain.CopyResult{PublishResult: res, From: rev.Title, SourceRevision: rev.RevID}, nil
}

// lastMessage extracts the remote text of err without repeating wrapper prefixes
func lastMessage(err error) string {
	var re *mw.RemoteError
	var se *mw.StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &re):
		return re.Error()
	case errors.As(err, &se):
		return se.Error()
	}
	return err.Error()
}

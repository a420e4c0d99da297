// Package service contains the wiki publishing workflows: token fetch,
// login with bot password fallback, and retried page writes
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"wikipub/internal/core/wikitext"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	str "wikipub/internal/platform/strings"
	"wikipub/internal/services/wiki/domain"

	"github.com/google/uuid"
)

// DefaultSummary is the edit summary used when a request names none
const DefaultSummary = "Automated update via wikipub"

// Config is built once per process and injected; nothing here is global
type Config struct {
	WikiBase    string
	Summary     string
	Template    string
	BotName     string
	BotReason   string
	Grants      []string
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// RenderRequest describes one page to render and write
type RenderRequest struct {
	Title    string
	Summary  string
	Template string
	Context  map[string]any

	// Content, when set, is written verbatim and Template is ignored
	Content string
}

// Svc ties rendering, login and publishing together
type Svc struct {
	cfg    Config
	tokens *TokenCache
	auth   *Authenticator
	pub    *Publisher
	render domain.Renderer

	// seams
	newID func() string
}

// New constructs the service. render may be nil when callers always send Content
func New(dial domain.SessionFactory, render domain.Renderer, cfg Config) *Svc {
	if dial == nil {
		panic("wiki.Service requires a non nil SessionFactory")
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	cfg.Summary = str.FirstNonBlank(cfg.Summary, DefaultSummary)

	policy := DefaultPolicy()
	policy.MaxAttempts = cfg.MaxRetries + 1
	policy.Backoff = ExponentialBackoff{Base: cfg.BackoffBase, Max: cfg.BackoffMax}

	tokens := NewTokenCache()
	resolver := NewResolver(tokens, cfg.BotName, cfg.BotReason, cfg.Grants)
	return &Svc{
		cfg:    cfg,
		tokens: tokens,
		auth:   NewAuthenticator(dial, tokens, resolver),
		pub:    NewPublisher(tokens, policy, cfg.WikiBase),
		render: render,
		newID:  uuid.NewString,
	}
}

// Config returns the effective configuration
func (s *Svc) Config() Config { return s.cfg }

// Login authenticates primary, provisioning a bot password when needed
func (s *Svc) Login(ctx context.Context, primary domain.Credential) (domain.LoginResult, error) {
	return s.auth.Login(s.withOperation(ctx, primary), primary)
}

// Render produces the page body for req without touching the network
func (s *Svc) Render(req RenderRequest) (string, error) {
	if req.Content != "" {
		return req.Content, nil
	}
	if s.render == nil {
		return "", perr.Templatef("no template renderer configured")
	}
	out, err := s.render.Render(str.FirstNonBlank(req.Template, s.cfg.Template), req.Context)
	if err != nil {
		return "", perr.WithOp(err, "render")
	}
	if strings.TrimSpace(out) == "" {
		return "", perr.WithField(perr.Op("render", perr.ErrorCodeInvalidArgument, "rendered content is empty"), "content")
	}
	return out, nil
}

// PublishRendered renders, logs in and publishes. A bot password minted on
// the way is returned in the result even when a later step fails
func (s *Svc) PublishRendered(ctx context.Context, primary domain.Credential, req RenderRequest) (domain.PublishResult, error) {
	title := wikitext.CleanTitle(req.Title)
	if title == "" {
		return domain.PublishResult{}, perr.WithField(perr.InvalidArgf("page title is required"), "title")
	}
	if err := checkCredential(primary); err != nil {
		return domain.PublishResult{}, err
	}

	body, err := s.Render(req)
	if err != nil {
		return domain.PublishResult{PageTitle: title}, err
	}

	ctx = s.withOperation(ctx, primary)
	opID := logger.OperationID(ctx)

	login, err := s.auth.Login(ctx, primary)
	if err != nil {
		return domain.PublishResult{PageTitle: title, ScopedCredential: provisionedFrom(err), OperationID: opID}, err
	}

	res, err := s.pub.Publish(ctx, login.Session, domain.PublishRequest{
		Title:   title,
		Content: body,
		Summary: str.FirstNonBlank(req.Summary, s.cfg.Summary),
	}, s.cfg.MaxRetries)
	if res.PageTitle == "" {
		res.PageTitle = title
	}
	res.IdentityUsed = login.IdentityUsed
	res.ScopedCredential = login.ScopedCredential
	res.OperationID = opID
	return res, err
}

// CopyPage logs in and copies req.From onto req.To
func (s *Svc) CopyPage(ctx context.Context, primary domain.Credential, req domain.CopyRequest) (domain.CopyResult, error) {
	req.From = wikitext.CleanTitle(req.From)
	req.To = wikitext.CleanTitle(req.To)
	switch {
	case req.From == "":
		return domain.CopyResult{}, perr.WithField(perr.InvalidArgf("source title is required"), "from")
	case req.To == "":
		return domain.CopyResult{}, perr.WithField(perr.InvalidArgf("target title is required"), "to")
	case req.From == req.To:
		return domain.CopyResult{}, perr.WithField(perr.InvalidArgf("source and target are the same page"), "to")
	}
	if err := checkCredential(primary); err != nil {
		return domain.CopyResult{}, err
	}
	req.Summary = str.FirstNonBlank(req.Summary, "Copy of [["+req.From+"]]")

	ctx = s.withOperation(ctx, primary)
	opID := logger.OperationID(ctx)

	login, err := s.auth.Login(ctx, primary)
	if err != nil {
		out := domain.CopyResult{From: req.From}
		out.PageTitle = req.To
		out.ScopedCredential = provisionedFrom(err)
		out.OperationID = opID
		return out, err
	}

	res, err := s.pub.Copy(ctx, login.Session, req, s.cfg.MaxRetries)
	if res.From == "" {
		res.From = req.From
	}
	if res.PageTitle == "" {
		res.PageTitle = req.To
	}
	res.IdentityUsed = login.IdentityUsed
	res.ScopedCredential = login.ScopedCredential
	res.OperationID = opID
	return res, err
}

// withOperation stamps ctx with a fresh operation id unless one is present
func (s *Svc) withOperation(ctx context.Context, c domain.Credential) context.Context {
	if logger.OperationID(ctx) != "" {
		return ctx
	}
	return logger.WithOperation(ctx, s.newID(), c.Identity)
}

func checkCredential(c domain.Credential) error {
	switch {
	case str.Blank(c.Identity):
		return perr.WithField(perr.Unauthorizedf("wiki username is required"), "username")
	case c.Secret == "":
		return perr.WithField(perr.Unauthorizedf("wiki password is required"), "password")
	}
	return nil
}

// provisionedFrom returns the bot password carried by a login failure, if any
func provisionedFrom(err error) *domain.Credential {
	var le *domain.LoginError
	if errors.As(err, &le) {
		return le.Provisioned
	}
	return nil
}

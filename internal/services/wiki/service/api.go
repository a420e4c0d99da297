package service

import (
	"context"
	"errors"
	"sync"

	"wikipub/internal/core/content"
	"wikipub/internal/core/wikitext"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	str "wikipub/internal/platform/strings"
	"wikipub/internal/services/wiki/domain"
)

// DefaultSandboxSummary is the edit summary for API sandbox staging
const DefaultSandboxSummary = "Staged content in sandbox"

// Service is the port the HTTP API mounts
type Service interface{ domain.ServicePort }

// API serves HTTP requests with one configured wiki account.
// Publishes go to that account's sandbox; Title names the intended article.
// A bot password minted by one request is used by later ones for the life of
// the process, so the wiki is never asked to create the same bot twice
type API struct {
	svc     *Svc
	primary domain.Credential

	mu     sync.Mutex
	scoped *domain.Credential
}

// NewAPI binds svc to the account used for every request
func NewAPI(svc *Svc, primary domain.Credential) *API {
	if svc == nil {
		panic("wiki.API requires a non nil Svc")
	}
	return &API{svc: svc, primary: primary}
}

// Publish renders in and stages it on User:<account>/sandbox
func (a *API) Publish(ctx context.Context, in domain.PublishInput) (domain.PublishOutput, error) {
	if str.Blank(a.primary.Identity) || a.primary.Secret == "" {
		return domain.PublishOutput{}, perr.Unavailablef("wiki credentials are not configured")
	}

	data := map[string]any{
		content.KeyPageTitle:   in.Title,
		content.KeyProductName: in.Title,
		content.KeyDescription: "",
		content.KeyFeatures:    []string{},
	}
	content.Merge(data, in.TemplateContext)

	page := wikitext.SandboxTitle(a.primary.Identity)
	cred := a.credential()
	res, err := a.svc.PublishRendered(ctx, cred, RenderRequest{
		Title:    page,
		Summary:  str.FirstNonBlank(in.Summary, DefaultSandboxSummary),
		Template: in.TemplateName,
		Context:  data,
		Content:  in.Content,
	})
	a.settle(ctx, cred, res.ScopedCredential, err)

	out := domain.PublishOutput{
		Status:             statusOf(err),
		Page:               res.PageTitle,
		URL:                res.PageURL,
		ArticleTitle:       in.Title,
		RevisionID:         res.RevisionID,
		IdentityUsed:       res.IdentityUsed,
		BotPasswordCreated: res.ScopedCredential != nil,
		OperationID:        res.OperationID,
	}
	return out, err
}

// Copy copies in.From onto in.To with the configured account
func (a *API) Copy(ctx context.Context, in domain.CopyInput) (domain.CopyOutput, error) {
	if str.Blank(a.primary.Identity) || a.primary.Secret == "" {
		return domain.CopyOutput{}, perr.Unavailablef("wiki credentials are not configured")
	}

	cred := a.credential()
	res, err := a.svc.CopyPage(ctx, cred, domain.CopyRequest{From: in.From, To: in.To, Summary: in.Summary})
	a.settle(ctx, cred, res.ScopedCredential, err)

	out := domain.CopyOutput{
		Status:             statusOf(err),
		From:               res.From,
		Page:               res.PageTitle,
		URL:                res.PageURL,
		RevisionID:         res.RevisionID,
		IdentityUsed:       res.IdentityUsed,
		BotPasswordCreated: res.ScopedCredential != nil,
		OperationID:        res.OperationID,
	}
	return out, err
}

// credential is the bot password minted earlier in this process, else the configured account
func (a *API) credential() domain.Credential {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scoped != nil {
		return *a.scoped
	}
	return a.primary
}

// settle keeps a newly minted bot password and forgets a kept one the wiki refused
func (a *API) settle(ctx context.Context, used domain.Credential, minted *domain.Credential, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var le *domain.LoginError
	switch {
	case minted != nil:
		c := *minted
		a.scoped = &c
		// the secret stays in memory; operators persist it through WIKI_PASSWORD
		logger.C(ctx).Warn().Str("identity", c.Identity).
			Msg("bot password provisioned during API request; update the configured credential")
	case errors.As(err, &le) && perr.IsCode(err, perr.ErrorCodeLoginFailed) &&
		a.scoped != nil && a.scoped.Identity == used.Identity:
		a.scoped = nil
		logger.C(ctx).Warn().Str("identity", used.Identity).Msg("kept bot password refused, back to the configured account")
	}
}

func statusOf(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

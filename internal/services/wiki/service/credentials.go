package service

import (
	"context"
	"strings"

	mw "wikipub/internal/adapters/mediawiki"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	"wikipub/internal/services/wiki/domain"
)

// Defaults for provisioned bot passwords
const (
	DefaultBotName   = "PsiAdirondackBot"
	DefaultBotReason = "Automated publishing through PsiAdirondack CRM"
)

// DefaultGrants are the rights a provisioned bot password receives
var DefaultGrants = []string{"editpage", "createpage", "writeapi"}

// Resolver mints a scoped bot password from a primary credential
type Resolver struct {
	tokens  *TokenCache
	botName string
	grants  []string
	reason  string
}

// NewResolver builds a Resolver; empty values take the defaults
func NewResolver(tokens *TokenCache, botName, reason string, grants []string) *Resolver {
	if tokens == nil {
		tokens = NewTokenCache()
	}
	if strings.TrimSpace(botName) == "" {
		botName = DefaultBotName
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultBotReason
	}
	if len(grants) == 0 {
		grants = DefaultGrants
	}
	return &Resolver{tokens: tokens, botName: botName, grants: grants, reason: reason}
}

// BotName returns the name appended to scoped identities
func (r *Resolver) BotName() string { return r.botName }

// Provision logs in with primary on s, then creates a bot password.
// Every failure is CredentialProvisioningFailed and is never retried
func (r *Resolver) Provision(ctx context.Context, s domain.Session, primary domain.Credential) (domain.Credential, error) {
	log := logger.C(ctx)
	fail := func(err error, format string, a ...any) (domain.Credential, error) {
		if err == nil {
			return domain.Credential{}, perr.Op("provision_credential", perr.ErrorCodeProvisioningFailed, format, a...)
		}
		return domain.Credential{}, perr.WrapOp(err, "provision_credential", perr.ErrorCodeProvisioningFailed, format, a...)
	}

	lt, err := r.tokens.Fetch(ctx, s, domain.LoginToken)
	if err != nil {
		return fail(err, "login token")
	}
	reply, err := s.Login(ctx, mw.LoginParams{Name: primary.Identity, Password: primary.Secret, Token: lt.Value})
	if err != nil {
		return fail(err, "primary login")
	}
	if reply.Result != "Success" {
		return fail(nil, "primary login rejected: %s", loginMessage(reply))
	}

	wt, err := r.tokens.Fetch(ctx, s, domain.WriteToken)
	if err != nil {
		return fail(err, "write token")
	}
	bp, err := s.CreateBotPassword(ctx, mw.BotPasswordParams{
		Name:   r.botName,
		Grants: r.grants,
		Reason: r.reason,
		Token:  wt.Value,
	})
	if err != nil {
		return fail(err, "create bot password %q: %s", r.botName, mw.RemoteMessage(err))
	}
	if bp.Status != "success" {
		return fail(nil, "create bot password %q: status %q %s", r.botName, bp.Status, bp.Message)
	}
	if bp.Password == "" {
		return fail(nil, "create bot password %q: no password returned", r.botName)
	}

	scoped := domain.Credential{Identity: domain.ScopedIdentity(primary.Identity, r.botName), Secret: bp.Password}
	log.Info().Str("identity", scoped.Identity).Strs("grants", r.grants).Msg("bot password provisioned")
	return scoped, nil
}

// loginMessage picks the most useful human text from a failed login reply
func loginMessage(r mw.LoginReply) string {
	code := r.FailureCode()
	text := strings.TrimSpace(r.Reason.Text)
	switch {
	case code != "" && text != "":
		return code + ": " + text
	case text != "":
		return text
	case code != "":
		return code
	case r.Result != "":
		return r.Result
	default:
		return "no result"
	}
}

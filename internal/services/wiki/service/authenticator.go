package service

import (
	"context"

	mw "wikipub/internal/adapters/mediawiki"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	"wikipub/internal/services/wiki/domain"
)

// codeWrongPass is the login failure that triggers the bot password fallback
const codeWrongPass = "WrongPass"

// Authenticator logs a primary credential in, falling back once to a
// freshly provisioned bot password when the wiki answers WrongPass
type Authenticator struct {
	dial     domain.SessionFactory
	tokens   *TokenCache
	resolver *Resolver
}

// NewAuthenticator wires an Authenticator
func NewAuthenticator(dial domain.SessionFactory, tokens *TokenCache, resolver *Resolver) *Authenticator {
	if dial == nil {
		panic("wiki.Authenticator requires a non nil SessionFactory")
	}
	if tokens == nil {
		tokens = NewTokenCache()
	}
	if resolver == nil {
		resolver = NewResolver(tokens, "", "", nil)
	}
	return &Authenticator{dial: dial, tokens: tokens, resolver: resolver}
}

// Login runs AttemptingPrimary -> [AttemptingScoped] -> Authenticated.
// Provisioning happens at most once; a failed scoped attempt is terminal
func (a *Authenticator) Login(ctx context.Context, primary domain.Credential) (domain.LoginResult, error) {
	log := logger.C(ctx)

	sess, err := a.dial()
	if err != nil {
		return domain.LoginResult{}, &domain.LoginError{
			State: domain.StateFailed,
			Err:   perr.WrapOp(err, "login", perr.ErrorCodeLoginFailed, "open session"),
		}
	}

	state := domain.StateAttemptingPrimary
	cred := primary
	var provisioned *domain.Credential

	fail := func(err error) (domain.LoginResult, error) {
		log.Warn().Err(err).Str("state", string(state)).Str("identity", cred.Identity).Msg("login failed")
		return domain.LoginResult{}, &domain.LoginError{State: domain.StateFailed, Err: err, Provisioned: provisioned}
	}

	for {
		reply, err := a.attempt(ctx, sess, cred)
		if perr.IsCode(err, perr.ErrorCodeTokenUnavailable) {
			return fail(err)
		}
		if err != nil {
			return fail(perr.WrapOp(err, "login", perr.ErrorCodeLoginFailed, "login as %s: %s", cred.Identity, mw.RemoteMessage(err)))
		}

		if reply.Result == "Success" {
			log.Info().Str("identity", cred.Identity).Bool("scoped", provisioned != nil).Msg("logged in")
			return domain.LoginResult{Session: sess, IdentityUsed: cred.Identity, ScopedCredential: provisioned}, nil
		}

		code := reply.FailureCode()
		if state == domain.StateAttemptingPrimary && reply.Result == "Failed" &&
			code == codeWrongPass && cred.Kind() == domain.CredentialPrimary {
			log.Info().Str("identity", cred.Identity).Msg("primary login refused, provisioning bot password")
			scoped, err := a.resolver.Provision(ctx, sess, primary)
			if err != nil {
				return fail(err)
			}
			provisioned = &scoped
			cred = scoped
			state = domain.StateAttemptingScoped
			continue
		}

		return fail(perr.Op("login", perr.ErrorCodeLoginFailed, "login as %s rejected: %s", cred.Identity, loginMessage(reply)))
	}
}

// attempt fetches a fresh LoginToken and posts one login
func (a *Authenticator) attempt(ctx context.Context, s domain.Session, c domain.Credential) (mw.LoginReply, error) {
	lt, err := a.tokens.Fetch(ctx, s, domain.LoginToken)
	if err != nil {
		return mw.LoginReply{}, err
	}
	return s.Login(ctx, mw.LoginParams{Name: c.Identity, Password: c.Secret, Token: lt.Value})
}

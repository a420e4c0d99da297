package service

import (
	"context"
	"strings"

	mw "wikipub/internal/adapters/mediawiki"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	"wikipub/internal/services/wiki/domain"
)

// TokenCache fetches tokens for one session. Despite the name nothing is
// kept between calls: each Fetch is a live round trip
type TokenCache struct{}

// NewTokenCache returns a TokenCache
func NewTokenCache() *TokenCache { return &TokenCache{} }

// Fetch retrieves a token of kind over s. A reply without the expected
// field is TokenUnavailable; transport failures keep their own code
func (TokenCache) Fetch(ctx context.Context, s domain.Session, kind domain.TokenKind) (domain.Token, error) {
	typ := mw.TokenTypeCSRF
	if kind == domain.LoginToken {
		typ = mw.TokenTypeLogin
	}

	toks, err := s.Tokens(ctx, typ)
	if err != nil {
		return domain.Token{}, perr.WithOp(err, "fetch_token")
	}

	val := toks.CSRFToken
	field := "csrftoken"
	if kind == domain.LoginToken {
		val = toks.LoginToken
		field = "logintoken"
	}
	// `+\` is the anonymous csrf token and cannot authorize anything
	if strings.TrimSpace(val) == "" || val == `+\` {
		return domain.Token{}, perr.WithField(
			perr.WithOp(perr.TokenUnavailablef("%s token missing from response", kind), "fetch_token"),
			field,
		)
	}

	logger.C(ctx).Debug().Str("kind", kind.String()).Msg("token fetched")
	return domain.Token{Kind: kind, Value: val}, nil
}

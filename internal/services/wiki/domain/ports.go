package domain

import (
	"context"

	mw "wikipub/internal/adapters/mediawiki"
)

// Session is one authenticated conversation with the wiki. Single writer
type Session interface {
	Tokens(ctx context.Context, typ string) (mw.Tokens, error)
	Login(ctx context.Context, p mw.LoginParams) (mw.LoginReply, error)
	CreateBotPassword(ctx context.Context, p mw.BotPasswordParams) (mw.BotPasswordReply, error)
	Edit(ctx context.Context, p mw.EditParams) (mw.EditReply, error)
	Revision(ctx context.Context, title string) (mw.Revision, error)
}

// SessionFactory opens a fresh unauthenticated Session
type SessionFactory func() (Session, error)

// Renderer turns a named template and context into page text
type Renderer interface {
	Render(name string, data map[string]any) (string, error)
}

// ServicePort is the surface the HTTP API calls
type ServicePort interface {
	Publish(ctx context.Context, in PublishInput) (PublishOutput, error)
	Copy(ctx context.Context, in CopyInput) (CopyOutput, error)
}

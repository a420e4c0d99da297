// Package domain holds wiki publishing types independent of transport
package domain

import (
	"strings"

	str "wikipub/internal/platform/strings"
)

// CredentialKind tells a main-account credential from a bot password
type CredentialKind string

const (
	// CredentialPrimary is the account's own name and password
	CredentialPrimary CredentialKind = "primary"

	// CredentialScoped is a bot password named "<account>@<bot>"
	CredentialScoped CredentialKind = "scoped"
)

// Credential is an identity and its secret. Secret never appears in String()
type Credential struct {
	Identity string
	Secret   string
}

// Kind reports scoped when the identity carries the bot separator
func (c Credential) Kind() CredentialKind {
	if strings.Contains(c.Identity, "@") {
		return CredentialScoped
	}
	return CredentialPrimary
}

// String renders the credential with its secret masked
func (c Credential) String() string {
	return c.Identity + ":" + str.Mask(c.Secret)
}

// ScopedIdentity joins an account and bot name the way the wiki expects
func ScopedIdentity(primary, botName string) string {
	return primary + "@" + botName
}

// TokenKind selects which short-lived token to fetch
type TokenKind uint8

const (
	// LoginToken authorizes one login attempt
	LoginToken TokenKind = iota + 1

	// WriteToken (csrf) authorizes edits and bot password changes
	WriteToken
)

func (k TokenKind) String() string {
	switch k {
	case LoginToken:
		return "login"
	case WriteToken:
		return "write"
	default:
		return "unknown"
	}
}

// Token is a single fetched token value
type Token struct {
	Kind  TokenKind
	Value string
}

// PublishRequest is one page write; passed by value and never mutated
type PublishRequest struct {
	Title   string
	Content string
	Summary string
}

// PublishResult reports a finished write
type PublishResult struct {
	Success          bool        `json:"success"`
	PageTitle        string      `json:"page_title"`
	RevisionID       int64       `json:"revision_id,omitempty"`
	IdentityUsed     string      `json:"identity_used,omitempty"`
	ScopedCredential *Credential `json:"-"`
	PageURL          string      `json:"page_url,omitempty"`
	Attempts         int         `json:"attempts,omitempty"`
	OperationID      string      `json:"operation_id,omitempty"`
}

// CopyRequest copies the latest content of From onto To
type CopyRequest struct {
	From    string
	To      string
	Summary string
}

// CopyResult reports a finished copy
type CopyResult struct {
	PublishResult
	From           string `json:"from"`
	SourceRevision int64  `json:"source_revision,omitempty"`
}

// LoginState is a step of the login fallback machine
type LoginState string

const (
	StateAttemptingPrimary LoginState = "attempting_primary"
	StateAttemptingScoped  LoginState = "attempting_scoped"
	StateAuthenticated     LoginState = "authenticated"
	StateFailed            LoginState = "failed"
)

// LoginResult is an authenticated session plus who it is logged in as
type LoginResult struct {
	Session          Session
	IdentityUsed     string
	ScopedCredential *Credential
}

// LoginError is a terminal login failure. Provisioned is set when a bot
// password was minted before the failure so the caller can still keep it
type LoginError struct {
	Err         error
	State       LoginState
	Provisioned *Credential
}

func (e *LoginError) Error() string { return e.Err.Error() }

// Unwrap exposes the coded cause
func (e *LoginError) Unwrap() error { return e.Err }

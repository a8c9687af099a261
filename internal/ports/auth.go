package ports

// Package ports defines interfaces (hexagonal ports) for identity and session behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"net/http"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
)

// SessionState is the capability the gate holds against one browser session:
// read the cached identity, or dispatch a fetch that replaces it.
type SessionState interface {
	Identity(ctx context.Context) (domainauth.Identity, error)
	FetchLoginUser(ctx context.Context) error
}

// ErrNotFound is returned by IdentityStore.Get when no identity is cached for a session.
var ErrNotFound = errors.New("identity not found")

// IdentityStore persists the identity cached for each session.
//
// Every Replace and Delete advances the session's generation, and Delete keeps
// the generation it leaves behind. A fetch that read generation g may only
// write through CompareAndReplace(g), so an answer that raced a login or
// logout is dropped instead of overwriting it.
type IdentityStore interface {
	Get(ctx context.Context, sessionID string) (domainauth.Identity, error)
	Replace(ctx context.Context, sessionID string, identity domainauth.Identity) error
	Delete(ctx context.Context, sessionID string) error
	// Generation returns the session's current generation, 0 if it was never written.
	Generation(ctx context.Context, sessionID string) (uint64, error)
	// CompareAndReplace replaces the identity only while the generation is
	// still gen, and reports whether it did.
	CompareAndReplace(ctx context.Context, sessionID string, gen uint64, identity domainauth.Identity) (bool, error)
}

// LoginUserResult is the envelope returned by the remote "current login user" call.
type LoginUserResult struct {
	Code    int
	User    *domainauth.Identity
	Message string
}

// LoginUserSource asks the remote API who is logged in. cookieHeader carries the
// browser's credentials for the API.
type LoginUserSource interface {
	GetLoginUser(ctx context.Context, cookieHeader string) (LoginUserResult, error)
}

// LoginOutcome is a successful account/password sign-in.
type LoginOutcome struct {
	Identity domainauth.Identity
	// Cookies are the API session cookies to hand back to the browser.
	Cookies []*http.Cookie
}

// AccountGateway signs users in and out of the remote API.
type AccountGateway interface {
	Login(ctx context.Context, account, password, cookieHeader string) (LoginOutcome, error)
	Logout(ctx context.Context, cookieHeader string) ([]*http.Cookie, error)
}

package httpx

import (
	"context"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
)

// identityKey and sessionIDKey are unexported context key types to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	identityKey  struct{}
	sessionIDKey struct{}
)

// SetIdentityInContext returns a child context that carries the identity the gate resolved.
func SetIdentityInContext(ctx context.Context, identity domainauth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentityFromContext returns the identity from context and a boolean indicating presence.
func GetIdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domainauth.Identity)
	return identity, ok
}

// IdentityFromContext returns the identity in ctx, or the anonymous placeholder.
func IdentityFromContext(ctx context.Context) domainauth.Identity {
	if identity, ok := GetIdentityFromContext(ctx); ok {
		return identity
	}
	return domainauth.Anonymous()
}

// SetSessionIDInContext returns a child context that carries the browser session ID.
// If sessionID is empty, the original ctx is returned unchanged.
func SetSessionIDInContext(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext returns the browser session ID, or "" when none was assigned.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// IsGuestUser reports whether the current request context is unauthenticated.
func IsGuestUser(ctx context.Context) bool {
	return !IdentityFromContext(ctx).IsAuthenticated()
}

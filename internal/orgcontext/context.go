package orgcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Identity is the authenticated caller attached to a request context by the
// HTTP auth middleware. OrgRole is resolved from the user record on every
// request, never from token claims.
type Identity struct {
	UserID     snowflake.ID
	Email      string
	SystemRole string
	OrgID      string
	OrgRole    string
}

type identityKey struct{}

// WithIdentity stores the caller identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, if set.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// OrgIDFromContext returns the caller's organization id, if set.
func OrgIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.OrgID == "" {
		return "", false
	}
	return id.OrgID, true
}

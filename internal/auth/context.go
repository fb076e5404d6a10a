package auth

import "context"

type ctxKey int

const identityKey ctxKey = iota

// ContextWithIdentity attaches the resolved identity to ctx. The roles slice
// is copied so handlers cannot alter what later middleware sees.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	id.Roles = append(Roles(nil), id.Roles...)
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity set by the access guard.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Username != ""
}

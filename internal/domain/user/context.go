package user

import "context"

type identityKey struct{}

// WithIdentity stores the authenticated caller on the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller placed on ctx by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

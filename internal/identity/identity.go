package identity

import "context"

// Identity is the opaque authenticated caller.
type Identity struct {
	UserID string
	Admin  bool
}

// Current resolves the caller for ctx. ok is false for anonymous callers.
type Current func(ctx context.Context) (Identity, bool)

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

package auth

import (
	"context"

	"github.com/kalambet/cgs/internal/storage"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == storage.RoleAdmin }

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

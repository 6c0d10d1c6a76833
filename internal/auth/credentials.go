package auth

import (
	"context"

	"github.com/google/uuid"
)

// Credentials identify the caller of a single request. They are derived from
// the session token and passed explicitly into the services that need them.
type Credentials struct {
	UserID uuid.UUID
	Email  string
}

type ctxKey struct{}

func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, ctxKey{}, creds)
}

// FromContext returns the credentials stored by the auth middleware.
func FromContext(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(ctxKey{}).(Credentials)
	return creds, ok
}

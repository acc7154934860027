package mcp

import (
	"context"

	"github.com/bobmcallan/stockrec-portal/internal/client"
)

// userContextKey is the context key for per-request user information.
type userContextKey struct{}

// UserContext holds the caller's identity and the backend token their tool
// calls are made with.
type UserContext struct {
	UserID string
	Token  string
}

// WithUserContext returns a new context with the given UserContext attached.
func WithUserContext(ctx context.Context, uc UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// GetUserContext extracts the UserContext from the context, if present.
func GetUserContext(ctx context.Context) (UserContext, bool) {
	uc, ok := ctx.Value(userContextKey{}).(UserContext)
	return uc, ok
}

// backendContext forwards the caller's token to backend requests.
func backendContext(ctx context.Context) context.Context {
	if uc, ok := GetUserContext(ctx); ok {
		return client.WithToken(ctx, uc.Token)
	}
	return ctx
}

package backend

import (
	"context"
	"strings"
)

type tokenContextKey struct{}

var tokenKey = tokenContextKey{}

// ContextWithToken binds the caller's bearer token to the context so
// downstream backend calls run under the caller's identity.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(token) == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey, strings.TrimSpace(token))
}

// TokenFromContext extracts the bearer token bound to the context, if any.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value := ctx.Value(tokenKey); value != nil {
		if token, ok := value.(string); ok {
			return token
		}
	}
	return ""
}

// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"context"

	authDomain "github.com/banksec/apiguard/internal/auth/domain"
)

// authContextKey is a context key type for storing the authentication context.
type authContextKey struct{}

// WithAuthContext stores the resolved authentication context in the request context.
// This is called by the authentication middleware after credential resolution.
func WithAuthContext(ctx context.Context, auth authDomain.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// GetAuthContext retrieves the authentication context from the request context.
// Returns the anonymous context when the authentication middleware did not run.
func GetAuthContext(ctx context.Context) authDomain.AuthContext {
	if auth, ok := ctx.Value(authContextKey{}).(authDomain.AuthContext); ok {
		return auth
	}
	return authDomain.Anonymous()
}

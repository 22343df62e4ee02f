// Package domain defines the authentication domain model: roles, the
// per-request authentication context, and token failure modes.
package domain

// Role claim values carried by access tokens.
const (
	// RoleUser is the default role for registered users.
	RoleUser = "USER"

	// RoleAdmin grants access to administrative endpoints and all resources.
	RoleAdmin = "ADMIN"
)

// AuthContext is the resolved authentication state of a single request.
// It is either anonymous or a verified principal; the zero value is anonymous.
// The pipeline threads it through context.Context instead of mutating any
// ambient per-request state.
type AuthContext struct {
	subject       string
	role          string
	authenticated bool
}

// Anonymous returns the authentication context of a request that presented
// no credential.
func Anonymous() AuthContext {
	return AuthContext{}
}

// Principal returns the authentication context of a verified credential.
func Principal(subject, role string) AuthContext {
	return AuthContext{
		subject:       subject,
		role:          role,
		authenticated: true,
	}
}

// Authenticated reports whether a verified credential backs this context.
func (a AuthContext) Authenticated() bool {
	return a.authenticated
}

// Subject returns the principal identifier (username) from the verified
// token, or "" for anonymous contexts.
func (a AuthContext) Subject() string {
	return a.subject
}

// Role returns the role claim from the verified token, or "" for anonymous
// contexts.
func (a AuthContext) Role() string {
	return a.role
}

// IsAdmin reports whether the verified role claim equals the admin role.
func (a AuthContext) IsAdmin() bool {
	return a.authenticated && a.role == RoleAdmin
}

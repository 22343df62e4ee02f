// Package authz decides whether the authenticated principal may act on a
// given user or account resource. Decisions are pure reads over the user and
// account stores; nothing is ever mutated here.
package authz

import (
	"context"

	accountDomain "github.com/banksec/apiguard/internal/account/domain"
	authDomain "github.com/banksec/apiguard/internal/auth/domain"
	userDomain "github.com/banksec/apiguard/internal/user/domain"
)

// UserFinder resolves token subjects to internal user identities.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// AccountFinder resolves account ids to their owning user.
type AccountFinder interface {
	GetByID(ctx context.Context, id int64) (*accountDomain.Account, error)
}

// Authorizer implements ownership and role checks for resource-scoped
// endpoints. A denied resource looks the same whether it exists or not:
// both a missing account and a non-owned account yield false.
type Authorizer struct {
	users    UserFinder
	accounts AccountFinder
}

// NewAuthorizer creates an Authorizer over the given lookup collaborators.
func NewAuthorizer(users UserFinder, accounts AccountFinder) *Authorizer {
	return &Authorizer{
		users:    users,
		accounts: accounts,
	}
}

// PrincipalID resolves the verified token subject to an internal user id.
// Returns false when the request is anonymous or the subject no longer
// resolves to a stored user.
func (a *Authorizer) PrincipalID(ctx context.Context, auth authDomain.AuthContext) (int64, bool) {
	if !auth.Authenticated() {
		return 0, false
	}

	user, err := a.users.GetByUsername(ctx, auth.Subject())
	if err != nil || user == nil {
		return 0, false
	}

	return user.ID, true
}

// CanAccessUser reports whether the principal owns the target user resource
// or holds the admin role.
func (a *Authorizer) CanAccessUser(ctx context.Context, auth authDomain.AuthContext, targetUserID int64) bool {
	if auth.IsAdmin() {
		return true
	}

	principalID, ok := a.PrincipalID(ctx, auth)
	return ok && principalID == targetUserID
}

// CanAccessAccount reports whether the principal owns the target account or
// holds the admin role. A non-existent account is indistinguishable from a
// non-owned one.
func (a *Authorizer) CanAccessAccount(ctx context.Context, auth authDomain.AuthContext, targetAccountID int64) bool {
	if auth.IsAdmin() {
		return true
	}

	principalID, ok := a.PrincipalID(ctx, auth)
	if !ok {
		return false
	}

	account, err := a.accounts.GetByID(ctx, targetAccountID)
	if err != nil || account == nil {
		return false
	}

	return account.OwnerUserID == principalID
}

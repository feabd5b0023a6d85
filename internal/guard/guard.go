// Package guard decides whether a session may enter a role's portal.
package guard

import (
	"context"
	"errors"
	"strings"

	"shelfsync/internal/domain"
)

// AccessDenied is the blocking message shown on a role violation.
const AccessDenied = "Access denied. Please login with the correct account type."

// ErrUnauthenticated is what Identity.User returns for a missing or dead
// session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the external identity service.
type Identity interface {
	// User returns the signed-in account, or an error matching
	// ErrUnauthenticated when there is no valid session.
	User(ctx context.Context, token string) (*domain.Account, error)
	// Role returns the profile role, domain.ErrNotFound when there is no
	// profile.
	Role(ctx context.Context, userID string) (domain.Role, error)
	SignOut(ctx context.Context, token string) error
}

// Outcome is the result of a guard check. When Allowed is false the caller
// redirects to Redirect and, if Message is set, shows it first.
type Outcome struct {
	Allowed   bool
	Account   *domain.Account
	Redirect  string
	Message   string
	SignedOut bool
}

// LoginPath is the login page of a role's portal.
func LoginPath(role domain.Role) string {
	switch role {
	case domain.RoleSeller:
		return "login-seller.html"
	case domain.RoleAdmin:
		return "login-admin.html"
	default:
		return "login-customer.html"
	}
}

// HomePath is where a role lands after signing in.
func HomePath(role domain.Role) string {
	switch role {
	case domain.RoleSeller:
		return "seller-dashboard.html"
	case domain.RoleAdmin:
		return "admin-dashboard.html"
	default:
		return "all-books.html"
	}
}

// Require admits the session only if it belongs to an account holding role.
// Unauthenticated sessions go to the role's login page. A wrong or missing
// profile role signs the session out and is reported as access denied.
// Identity service failures fall back to the customer login page.
func Require(ctx context.Context, id Identity, token string, role domain.Role) Outcome {
	if strings.TrimSpace(token) == "" {
		return Outcome{Redirect: LoginPath(role)}
	}
	acc, err := id.User(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return Outcome{Redirect: LoginPath(role)}
		}
		return Outcome{Redirect: LoginPath(domain.RoleCustomer)}
	}
	if acc == nil {
		return Outcome{Redirect: LoginPath(role)}
	}

	have, err := id.Role(ctx, acc.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Outcome{Redirect: LoginPath(domain.RoleCustomer)}
	}
	if err != nil || have != role {
		out := Outcome{Redirect: LoginPath(role), Message: AccessDenied}
		out.SignedOut = id.SignOut(ctx, token) == nil
		return out
	}
	return Outcome{Allowed: true, Account: acc}
}

package guard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"shelfsync/internal/domain"
)

type stubIdentity struct {
	acc       *domain.Account
	userErr   error
	role      domain.Role
	roleErr   error
	signedOut []string
}

func (s *stubIdentity) User(context.Context, string) (*domain.Account, error) {
	return s.acc, s.userErr
}

func (s *stubIdentity) Role(context.Context, string) (domain.Role, error) {
	return s.role, s.roleErr
}

func (s *stubIdentity) SignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return nil
}

func TestRequire_Allowed(t *testing.T) {
	id := &stubIdentity{acc: &domain.Account{ID: "u1"}, role: domain.RoleSeller}
	out := Require(context.Background(), id, "tok", domain.RoleSeller)
	assert.True(t, out.Allowed)
	assert.Equal(t, "u1", out.Account.ID)
	assert.Empty(t, id.signedOut)
}

func TestRequire_Unauthenticated(t *testing.T) {
	for role, page := range map[domain.Role]string{
		domain.RoleCustomer: "login-customer.html",
		domain.RoleSeller:   "login-seller.html",
		domain.RoleAdmin:    "login-admin.html",
	} {
		id := &stubIdentity{userErr: fmt.Errorf("lookup: %w", ErrUnauthenticated)}
		out := Require(context.Background(), id, "tok", role)
		assert.False(t, out.Allowed)
		assert.Equal(t, page, out.Redirect)
		assert.Empty(t, out.Message)

		out = Require(context.Background(), &stubIdentity{}, "", role)
		assert.Equal(t, page, out.Redirect)
	}
}

func TestRequire_WrongRoleSignsOut(t *testing.T) {
	id := &stubIdentity{acc: &domain.Account{ID: "u1"}, role: domain.RoleCustomer}
	out := Require(context.Background(), id, "tok", domain.RoleAdmin)
	assert.False(t, out.Allowed)
	assert.Equal(t, "login-admin.html", out.Redirect)
	assert.Equal(t, AccessDenied, out.Message)
	assert.True(t, out.SignedOut)
	assert.Equal(t, []string{"tok"}, id.signedOut)
}

func TestRequire_MissingProfileSignsOut(t *testing.T) {
	id := &stubIdentity{acc: &domain.Account{ID: "u1"}, roleErr: domain.ErrNotFound}
	out := Require(context.Background(), id, "tok", domain.RoleSeller)
	assert.Equal(t, "login-seller.html", out.Redirect)
	assert.Equal(t, AccessDenied, out.Message)
	assert.Equal(t, []string{"tok"}, id.signedOut)
}

func TestRequire_ServiceErrorGoesToCustomerLogin(t *testing.T) {
	out := Require(context.Background(), &stubIdentity{userErr: errors.New("db down")}, "tok", domain.RoleAdmin)
	assert.Equal(t, "login-customer.html", out.Redirect)
	assert.Empty(t, out.Message)

	id := &stubIdentity{acc: &domain.Account{ID: "u1"}, roleErr: errors.New("db down")}
	out = Require(context.Background(), id, "tok", domain.RoleSeller)
	assert.Equal(t, "login-customer.html", out.Redirect)
	assert.Empty(t, id.signedOut)
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, "all-books.html", HomePath(domain.RoleCustomer))
	assert.Equal(t, "seller-dashboard.html", HomePath(domain.RoleSeller))
	assert.Equal(t, "admin-dashboard.html", HomePath(domain.RoleAdmin))
}

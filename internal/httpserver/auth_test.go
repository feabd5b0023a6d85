package httpserver

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfsync/internal/domain"
	"shelfsync/internal/guard"
	authsvc "shelfsync/internal/service/auth"
)

func TestSignIn_SetsSessionCookie(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/login/seller", `{"email":"s@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[sessionResponse](t, rec)
	assert.Equal(t, "tok-1", got.Token)
	assert.Equal(t, "seller-dashboard.html", got.Redirect)
	assert.Equal(t, domain.RoleSeller, got.Account.Role)

	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "tok-1", session.Value)
	assert.True(t, session.HttpOnly)
}

func TestSignIn_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		status   int
		redirect string
	}{
		{"unknown portal", "/api/auth/login/root", nil, http.StatusNotFound, ""},
		{"bad credentials", "/api/auth/login/customer", authsvc.ErrInvalidCredentials, http.StatusUnauthorized, ""},
		{"wrong role", "/api/auth/login/admin", authsvc.ErrRoleMismatch, http.StatusForbidden, "login-admin.html"},
		{"service failure", "/api/auth/login/customer", errors.New("db down"), http.StatusInternalServerError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.auth.signInErr = tc.err
			rec := h.do(http.MethodPost, tc.path, `{"email":"x@example.com","password":"secret1"}`)
			require.Equal(t, tc.status, rec.Code)
			body := decode[errorResponse](t, rec)
			assert.Equal(t, tc.redirect, body.Redirect)
			if tc.status == http.StatusForbidden {
				assert.Equal(t, guard.AccessDenied, body.Message)
			}
		})
	}
}

func TestSignUp(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/auth/signup", `{"email":"new@example.com","password":"secret1","confirmPassword":"secret1","role":"seller"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "login-seller.html", decode[map[string]any](t, rec)["redirect"])

	h.auth.signUpErr = authsvc.ErrEmailTaken
	rec = h.do(http.MethodPost, "/api/auth/signup", `{"email":"new@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	h.auth.signUpErr = authsvc.ErrValidation
	rec = h.do(http.MethodPost, "/api/auth/signup", `{"email":"new@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignOutAndMe(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/auth/me", "", withToken("customer-token"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-1", decode[domain.Account](t, rec).ID)

	rec = h.do(http.MethodGet, "/api/auth/me", "", withToken("stale"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, "/api/auth/logout", "", withToken("customer-token"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"customer-token"}, h.auth.signedOut)
}

func TestRoleGuard(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		token     string
		status    int
		redirect  string
		signedOut bool
	}{
		{"no session", "/seller/stats", "", http.StatusUnauthorized, "login-seller.html", false},
		{"dead session", "/admin/stats", "expired", http.StatusUnauthorized, "login-admin.html", false},
		{"wrong role", "/seller/stats", "customer-token", http.StatusForbidden, "login-seller.html", true},
		{"customer on admin", "/admin/stats", "customer-token", http.StatusForbidden, "login-admin.html", true},
		{"allowed", "/seller/stats", "seller-token", http.StatusOK, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			var opts []reqOpt
			if tc.token != "" {
				opts = append(opts, withToken(tc.token))
			}
			rec := h.do(http.MethodGet, tc.path, "", opts...)
			require.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusOK {
				assert.Equal(t, tc.redirect, decode[errorResponse](t, rec).Redirect)
			}
			assert.Equal(t, tc.signedOut, len(h.auth.signedOut) == 1)
		})
	}
}

func TestRoleGuard_IdentityFailureGoesToCustomerLogin(t *testing.T) {
	h := newHarness(t)
	h.auth.roleErr = errors.New("profile lookup failed")

	rec := h.do(http.MethodGet, "/admin/stats", "", withToken("admin-token"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "login-customer.html", decode[errorResponse](t, rec).Redirect)
	assert.Empty(t, h.auth.signedOut)
}

func TestRoleGuard_SessionCookie(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/customer/orders", "", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "customer-token"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"shelfsync/internal/domain"
	"shelfsync/internal/guard"
	authsvc "shelfsync/internal/service/auth"
)

// identity adapts the auth service to the guard's contract.
type identity struct {
	auth AuthService
}

func (i identity) User(ctx context.Context, token string) (*domain.Account, error) {
	acc, err := i.auth.User(ctx, token)
	if errors.Is(err, authsvc.ErrInvalidToken) {
		return nil, fmt.Errorf("%w: %v", guard.ErrUnauthenticated, err)
	}
	return acc, err
}

func (i identity) Role(ctx context.Context, userID string) (domain.Role, error) {
	return i.auth.Role(ctx, userID)
}

func (i identity) SignOut(ctx context.Context, token string) error {
	return i.auth.SignOut(ctx, token)
}

// requireRole runs the role guard in front of a portal route group.
func requireRole(id guard.Identity, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := guard.Require(c.Request.Context(), id, sessionToken(c), role)
		if out.Allowed {
			c.Set(ctxAccount, out.Account)
			c.Next()
			return
		}
		if out.Message != "" {
			if out.SignedOut {
				clearSessionCookie(c)
			}
			writeRedirect(c, http.StatusForbidden, "access_denied", out.Message, out.Redirect)
			return
		}
		writeRedirect(c, http.StatusUnauthorized, "unauthenticated", "sign in required", out.Redirect)
	}
}

func accountFrom(c *gin.Context) *domain.Account {
	v, ok := c.Get(ctxAccount)
	if !ok {
		return nil
	}
	acc, _ := v.(*domain.Account)
	return acc
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

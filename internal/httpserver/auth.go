package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
	"shelfsync/internal/guard"
	authsvc "shelfsync/internal/service/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) signUp(c *gin.Context) {
	var req authsvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	acc, err := h.deps.Auth.SignUp(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrValidation):
			writeError(c, http.StatusBadRequest, "invalid_input", err.Error())
		case errors.Is(err, authsvc.ErrEmailTaken):
			writeError(c, http.StatusConflict, "email_taken", "an account with this email already exists")
		default:
			h.logger.Error("sign up", zap.Error(err))
			writeError(c, http.StatusInternalServerError, "internal_error", "could not create account")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": acc, "redirect": guard.LoginPath(acc.Role)})
}

func (h *handlers) signIn(c *gin.Context) {
	role, ok := domain.ParseRole(c.Param("role"))
	if !ok {
		writeError(c, http.StatusNotFound, "not_found", "unknown portal")
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	acc, session, err := h.deps.Auth.SignIn(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			writeError(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		case errors.Is(err, authsvc.ErrRoleMismatch):
			writeRedirect(c, http.StatusForbidden, "access_denied", guard.AccessDenied, guard.LoginPath(role))
		default:
			h.logger.Error("sign in", zap.String("role", string(role)), zap.Error(err))
			writeError(c, http.StatusInternalServerError, "internal_error", "could not sign in")
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, session.Token, h.deps.Auth.SessionTTLSeconds(), "/", "", false, true)
	c.JSON(http.StatusOK, sessionResponse{
		Account:   acc,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Redirect:  guard.HomePath(role),
	})
}

func (h *handlers) signOut(c *gin.Context) {
	if err := h.deps.Auth.SignOut(c.Request.Context(), sessionToken(c)); err != nil {
		h.logger.Warn("sign out", zap.Error(err))
	}
	clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	acc, err := h.deps.Auth.User(c.Request.Context(), sessionToken(c))
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidToken) {
			writeError(c, http.StatusUnauthorized, "unauthenticated", "sign in required")
			return
		}
		h.logger.Error("lookup session", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "could not load account")
		return
	}
	c.JSON(http.StatusOK, acc)
}

// Package auth registers accounts, signs sessions in and out, and resolves
// session tokens to accounts and roles.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shelfsync/internal/domain"
	accountrepo "shelfsync/internal/repository/account"
	tokenrepo "shelfsync/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a missing, unknown or expired session token.
	ErrInvalidToken = errors.New("invalid token")
	ErrEmailTaken   = errors.New("email already registered")
	// ErrRoleMismatch is returned when an account signs in through another
	// role's portal. No session is left behind.
	ErrRoleMismatch = errors.New("account does not have the requested role")
	ErrValidation   = errors.New("validation failed")
)

// SessionTTL is the lifetime of a session token.
const SessionTTL = 48 * time.Hour

const passwordMin = 6

type Service struct {
	accounts accountrepo.Repository
	tokens   *tokenManager
	logger   *zap.Logger
}

func New(accounts accountrepo.Repository, tokens tokenrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		accounts: accounts,
		tokens:   newTokenManager(tokens, time.Now),
		logger:   logger.Named("auth"),
	}
}

// SignupInput captures the registration form.
type SignupInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Role            string `json:"role"`
}

// Session is an issued sign-in.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignUp validates the form before touching storage.
func (s *Service) SignUp(ctx context.Context, in SignupInput) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if len(in.Password) < passwordMin {
		return nil, fmt.Errorf("%w: password should be at least %d characters long", ErrValidation, passwordMin)
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be customer, seller or admin", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acc, err := s.accounts.Create(ctx, domain.Account{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("account created", zap.String("user_id", acc.ID), zap.String("role", string(acc.Role)))
	return acc, nil
}

// SignIn checks credentials and that the account holds role.
func (s *Service) SignIn(ctx context.Context, email, password string, role domain.Role) (*domain.Account, Session, error) {
	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, Session{}, ErrInvalidCredentials
		}
		return nil, Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, Session{}, ErrInvalidCredentials
	}
	if acc.Role != role {
		s.logger.Warn("sign-in through wrong portal",
			zap.String("user_id", acc.ID),
			zap.String("role", string(acc.Role)),
			zap.String("portal", string(role)))
		return nil, Session{}, ErrRoleMismatch
	}

	token, expires, err := s.tokens.Issue(ctx, acc.ID, SessionTTL)
	if err != nil {
		return nil, Session{}, err
	}
	return acc, Session{Token: token, ExpiresAt: expires}, nil
}

// SignOut revokes token. Unknown tokens are already signed out.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, token)
}

// User resolves a session token to its account.
func (s *Service) User(ctx context.Context, token string) (*domain.Account, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	userID, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return acc, nil
}

// Role looks up the profile role of a user. A missing profile is
// domain.ErrNotFound.
func (s *Service) Role(ctx context.Context, userID string) (domain.Role, error) {
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return acc.Role, nil
}

// SweepExpired deletes expired session tokens.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	return s.tokens.Sweep(ctx)
}

func (s *Service) SessionTTLSeconds() int {
	return int(SessionTTL.Seconds())
}

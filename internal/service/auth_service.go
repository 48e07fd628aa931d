package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zenstudy/backend/internal/auth"
	"github.com/zenstudy/backend/internal/models"
)

// Session is the result of a successful registration or login: the account
// plus the bearer token the client attaches to every later request.
type Session struct {
	Account *models.Account
	Token   string
}

// AuthService handles registration and login on top of an Authenticator and
// the token manager.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new account and issues its first session token.
// The display name defaults to "User" when omitted, matching the signup form.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}
	if displayName = strings.TrimSpace(displayName); displayName == "" {
		displayName = "User"
	}

	account, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Issue(account)
	if err != nil {
		s.logger.Error("Failed to issue token", "account_id", account.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Account registered", "account_id", account.ID, "email", account.Email)
	return &Session{Account: account, Token: token}, nil
}

// Login authenticates an account and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}

	account, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "email", email)
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("Login lookup failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Issue(account)
	if err != nil {
		s.logger.Error("Failed to issue token", "account_id", account.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Account logged in", "account_id", account.ID, "email", account.Email)
	return &Session{Account: account, Token: token}, nil
}

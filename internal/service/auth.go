// Package service implements the application logic between the HTTP
// layer and the store.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
	"github.com/diyabooks/diya-server/internal/ratelimit"
	"github.com/diyabooks/diya-server/internal/store"
	"github.com/diyabooks/diya-server/internal/validation"
)

// AuthService handles registration, login, and session verification.
type AuthService struct {
	store        *store.Store
	validator    *validation.Validator
	loginLimiter *ratelimit.KeyedRateLimiter
	sessionTTL   time.Duration
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	validator *validation.Validator,
	loginLimiter *ratelimit.KeyedRateLimiter,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		validator:    validator,
		loginLimiter: loginLimiter,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// RegisterRequest contains new account data.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=128"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account with normal access and logs it in,
// returning the new user together with a fresh session.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, *domain.Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, nil, err
	}

	userID, err := s.store.AddUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.store.CreateSession(ctx, userID, s.sessionTTL)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered", "user_id", userID)
	return user, session, nil
}

// Login verifies credentials and mints a session. Unknown emails and
// wrong passwords produce the same error; repeated attempts for one
// email are rate limited.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.User, *domain.Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, nil, err
	}

	key := strings.ToLower(strings.TrimSpace(req.Email))
	if !s.loginLimiter.Allow(key) {
		s.logger.Warn("login rate limited", "email", key)
		return nil, nil, apperrors.RateLimited("too many login attempts, try again later")
	}

	identity, err := s.store.CheckUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.store.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.store.CreateSession(ctx, identity.UserID, s.sessionTTL)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", identity.UserID)
	return user, session, nil
}

// Logout revokes a session token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to its user. Expired or unknown
// tokens yield ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired session")
		}
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired session")
		}
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user's account data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// SetAccessLevel changes a user's access level (admin operation).
func (s *AuthService) SetAccessLevel(ctx context.Context, userID int64, level domain.AccessLevel) error {
	if level < domain.AccessNormal || level > domain.AccessAdmin {
		return apperrors.Validationf("invalid access level %d", level)
	}
	if err := s.store.SetAccessLevel(ctx, userID, level); err != nil {
		return err
	}
	s.logger.Info("access level changed", "user_id", userID, "level", int(level))
	return nil
}

// DeleteAccount removes a user and their sessions.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("account deleted", "user_id", userID)
	return nil
}

// Package service contains the business logic behind the HTTP layer.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfmarkapp/shelfmark-server/internal/auth"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// AuthService handles registration, login and the refresh token lifecycle.
// One refresh token is active per user at a time: login and register
// replace whatever was stored, logout clears it.
type AuthService struct {
	store     *store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *logger.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(st *store.Store, tokens *auth.TokenService, v *validation.Validator, log *logger.Logger) *AuthService {
	return &AuthService{
		store:     st,
		tokens:    tokens,
		validator: v,
		logger:    log,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the authenticated user and their session tokens.
type AuthResponse struct {
	User *domain.User
	auth.TokenPair
}

// Identity is the caller identity extracted from a verified access token.
type Identity struct {
	ID    string
	Email string
}

// Register creates a new user account and starts a session for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	user.InitTimestamps()

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	user.RefreshToken = pair.RefreshToken

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.BadRequest("Email is already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", userID, "email", user.Email)

	return &AuthResponse{User: user, TokenPair: pair}, nil
}

// Login authenticates a user and replaces their active session.
// Unknown email and wrong password produce the same error so the API
// never reveals whether an address is registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.BadRequest("Invalid credentials")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.BadRequest("Invalid credentials")
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	// Replacing the stored token supersedes any earlier session.
	user.RefreshToken = pair.RefreshToken
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &AuthResponse{User: user, TokenPair: pair}, nil
}

// Refresh mints a new access token from a valid refresh token.
// The presented token must equal the one currently stored on the user,
// so a superseded token is rejected even while cryptographically valid.
// The refresh token itself is never rotated here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domainerrors.Unauthorized("Refresh token missing")
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", domainerrors.Unauthorized("Invalid refresh token")
	}

	user, err := s.store.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", domainerrors.BadRequest("Invalid refresh token")
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if user.RefreshToken != refreshToken {
		return "", domainerrors.BadRequest("Invalid refresh token")
	}

	accessToken, err := s.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	return accessToken, nil
}

// Logout clears the stored refresh token, invalidating every
// outstanding refresh token for the user.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Nothing to invalidate.
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	if !user.HasRefreshToken() {
		// Already logged out, nothing to clear.
		return nil
	}

	user.RefreshToken = ""
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	s.logger.Info("User logged out", "user_id", userID)
	return nil
}

// VerifyAccessToken validates an access token and returns the caller
// identity. Used by the authentication middleware; no store lookup.
func (s *AuthService) VerifyAccessToken(tokenString string) (*Identity, error) {
	claims, err := s.tokens.VerifyAccess(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("Invalid or expired token")
	}
	return &Identity{ID: claims.Subject, Email: claims.Email}, nil
}

// GetUser returns the full user record for an authenticated caller.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

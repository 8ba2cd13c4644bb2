package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register",
		Description:   "Creates a new user account and starts a session",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Login",
		Description: "Authenticates a user and starts a session, replacing any previous one",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh session",
		Description: "Mints a new access token from the refresh cookie",
		Tags:        []string{"Auth"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Ends the session and invalidates the stored refresh token",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleLogout)
}

// === DTOs ===

// UserResponse contains user data in API responses.
// Credential fields never leave the server.
type UserResponse struct {
	ID        string    `json:"id" doc:"User ID"`
	Email     string    `json:"email" doc:"Email address"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// MessageResponse contains a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation message for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// AuthBody is the envelope returned by register and login.
type AuthBody struct {
	Message string       `json:"message" doc:"Confirmation message"`
	Data    UserResponse `json:"data" doc:"The authenticated user"`
}

// RegisterInput wraps the registration request for Huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// AuthOutput carries the auth envelope plus both session cookies.
type AuthOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      AuthBody
}

// RefreshInput carries the refresh cookie, with a body fallback for
// clients that cannot send cookies.
type RefreshInput struct {
	RefreshToken string `cookie:"refreshToken" required:"false" doc:"Refresh token cookie"`
	Body         *struct {
		RefreshToken string `json:"refreshToken,omitempty" doc:"Refresh token, used when the cookie is absent"`
	}
}

// RefreshOutput carries the fresh access cookie.
type RefreshOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// LogoutOutput clears both session cookies.
type LogoutOutput struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.authService.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		SetCookie: s.sessionCookies(resp.TokenPair.AccessToken, resp.TokenPair.RefreshToken),
		Body: AuthBody{
			Message: "User registered",
			Data:    newUserResponse(resp.User),
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.authService.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		SetCookie: s.sessionCookies(resp.TokenPair.AccessToken, resp.TokenPair.RefreshToken),
		Body: AuthBody{
			Message: "Login successful",
			Data:    newUserResponse(resp.User),
		},
	}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
	token := input.RefreshToken
	if token == "" && input.Body != nil {
		token = input.Body.RefreshToken
	}

	accessToken, err := s.authService.Refresh(ctx, token)
	if err != nil {
		return nil, err
	}

	return &RefreshOutput{
		SetCookie: []http.Cookie{s.accessCookie(accessToken, s.accessTTL)},
		Body:      MessageResponse{Message: "Token refreshed"},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authService.Logout(ctx, identity.ID); err != nil {
		return nil, err
	}

	return &LogoutOutput{
		SetCookie: s.clearedSessionCookies(),
		Body:      MessageResponse{Message: "Logged out"},
	}, nil
}

// sessionCookies builds the full cookie pair set on register and login.
func (s *Server) sessionCookies(accessToken, refreshToken string) []http.Cookie {
	return []http.Cookie{
		s.accessCookie(accessToken, s.accessTTL),
		s.refreshCookie(refreshToken, s.refreshTTL),
	}
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleGetCurrentUser)
}

// UserBody is the envelope for user profile responses.
type UserBody struct {
	Message string       `json:"message" doc:"Confirmation message"`
	Data    UserResponse `json:"data" doc:"The user profile"`
}

// UserOutput wraps the user envelope for Huma.
type UserOutput struct {
	Body UserBody
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.authService.GetUser(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: UserBody{
		Message: "User retrieved",
		Data:    newUserResponse(user),
	}}, nil
}

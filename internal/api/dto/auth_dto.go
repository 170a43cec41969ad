package dto

import (
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
)

// SignupRequest registers a tenant with its first admin user.
type SignupRequest struct {
	TenantName string `json:"tenant_name" validate:"required"`
	TenantSlug string `json:"tenant_slug" validate:"required,min=3,max=63"`
	AdminName  string `json:"admin_name" validate:"required"`
	AdminEmail string `json:"admin_email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
}

// LoginRequest payload.
type LoginRequest struct {
	TenantSlug string `json:"tenant_slug" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
}

// UserResponse response.
type UserResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
	IsActive bool            `json:"is_active"`
}

// AuthResponse carries the issued token and the authenticated user.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// AuthFromResult maps an auth result to its response shape.
func AuthFromResult(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: UserResponse{
			ID:       result.User.ID,
			Name:     result.User.Name,
			Email:    result.User.Email,
			Role:     result.User.Role,
			IsActive: result.User.IsActive,
		},
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pedro17pedroo/tts-sub001/internal/auth"
	"github.com/pedro17pedroo/tts-sub001/internal/config"
	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/repository"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// AuthService handles tenant signup and user authentication.
type AuthService struct {
	tenants    repository.TenantRepository
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// AuthDependencies bundles repositories for the auth service.
type AuthDependencies struct {
	TenantRepo repository.TenantRepository
	UserRepo   repository.UserRepository
}

// SignupInput registers a new tenant with its first admin user.
type SignupInput struct {
	TenantName string
	TenantSlug string
	AdminName  string
	AdminEmail string
	Password   string
}

// LoginInput authenticates a user within a tenant.
type LoginInput struct {
	TenantSlug string
	Email      string
	Password   string
}

// AuthResult carries the issued token and the authenticated user.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		tenants:    deps.TenantRepo,
		users:      deps.UserRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Signup creates a tenant and its admin, returning a signed token.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	slug := strings.ToLower(strings.TrimSpace(input.TenantSlug))
	if slug == "" || strings.TrimSpace(input.AdminEmail) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("tenant slug, admin email and password required", nil)
	}
	if existing, err := s.tenants.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, apperrors.NewConflict("tenant slug already taken", map[string]any{"slug": slug})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	tenant := &domain.Tenant{Name: strings.TrimSpace(input.TenantName), Slug: slug, IsActive: true}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		TenantID:     tenant.ID,
		Name:         strings.TrimSpace(input.AdminName),
		Email:        strings.ToLower(strings.TrimSpace(input.AdminEmail)),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login authenticates a user against a tenant slug.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	tenant, err := s.tenants.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(input.TenantSlug)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, tenant.ID, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive || !tenant.IsActive {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, input.Password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

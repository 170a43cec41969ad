package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/api/dto"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
)

// AuthHandler manages tenant signup and login endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.service.Signup(c.UserContext(), service.SignupInput{
		TenantName: req.TenantName,
		TenantSlug: req.TenantSlug,
		AdminName:  req.AdminName,
		AdminEmail: req.AdminEmail,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AuthFromResult(result)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.service.Login(c.UserContext(), service.LoginInput{
		TenantSlug: req.TenantSlug,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthFromResult(result)})
}

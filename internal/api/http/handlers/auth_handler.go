package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/api/dto"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/service"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.UserRole(req.Role),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authEnvelope(result))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authEnvelope(result))
}

func authEnvelope(result *service.AuthResult) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountResponse{
				ID:    result.Account.ID,
				Name:  result.Account.Name,
				Email: result.Account.Email,
				Role:  string(result.Account.Role),
			},
			"auth": dto.AuthResponse{Token: result.AccessToken, ExpiresAt: result.Token.ExpiresAt},
		},
	}
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/service"
)

// AuthHandler exposes registration, login and the current-user endpoint.
type AuthHandler struct {
	accounts AccountManager
	auth     Authenticator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts AccountManager, authenticator Authenticator) *AuthHandler {
	return &AuthHandler{accounts: accounts, auth: authenticator}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.UserContext(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		HallName:        req.HallName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":    userResponse(user),
		"message": "registration received; awaiting approval",
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      userResponse(result.User),
	}})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

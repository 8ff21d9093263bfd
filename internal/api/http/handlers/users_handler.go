package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/service"
)

// UsersHandler exposes administrative user management.
type UsersHandler struct {
	accounts AccountManager
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts AccountManager) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.accounts.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	user, err := h.accounts.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// ByHall GET /api/users/hall/:hallName.
func (h *UsersHandler) ByHall(c *fiber.Ctx) error {
	users, err := h.accounts.ListByHall(c.UserContext(), c.Params("hallName"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// ByRole GET /api/users/role/:role.
func (h *UsersHandler) ByRole(c *fiber.Ctx) error {
	users, err := h.accounts.ListByRole(c.UserContext(), c.Params("role"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.accounts.CreateUser(c.UserContext(), userInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Update PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	var req dto.UserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.accounts.UpdateUser(c.UserContext(), id, userInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Halls GET /api/users/halls.
func (h *UsersHandler) Halls(c *fiber.Ctx) error {
	names, err := h.accounts.HallNames(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": names})
}

// Statistics GET /api/users/statistics.
func (h *UsersHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.accounts.HallStatistics(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.HallStatisticResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, dto.HallStatisticResponse{HallName: s.HallName, UserCount: s.UserCount})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func userInput(req dto.UserRequest) service.UserInput {
	return service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		HallName: req.HallName,
		Role:     req.Role,
		Password: req.Password,
	}
}

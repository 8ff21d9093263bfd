package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/domain"
)

// AdminHandler exposes the account approval workflow.
type AdminHandler struct {
	accounts AccountManager
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accounts AccountManager) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// PendingUsers GET /api/admin/pending-users.
func (h *AdminHandler) PendingUsers(c *fiber.Ctx) error {
	users, err := h.accounts.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// Users GET /api/admin/users.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.accounts.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// UsersByStatus GET /api/admin/users/status/:status.
func (h *AdminHandler) UsersByStatus(c *fiber.Ctx) error {
	users, err := h.accounts.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// Approve POST /api/admin/users/:id/approve.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.accounts.Approve)
}

// Reject POST /api/admin/users/:id/reject.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.accounts.Reject)
}

// Suspend POST /api/admin/users/:id/suspend.
func (h *AdminHandler) Suspend(c *fiber.Ctx) error {
	return h.transition(c, h.accounts.Suspend)
}

// Activate POST /api/admin/users/:id/activate.
func (h *AdminHandler) Activate(c *fiber.Ctx) error {
	return h.transition(c, h.accounts.Activate)
}

// UpdateRole PUT /api/admin/users/:id/role.
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	var req dto.RoleUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.accounts.UpdateRole(c.UserContext(), id, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

func (h *AdminHandler) transition(c *fiber.Ctx, apply func(context.Context, string) (*domain.User, error)) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	user, err := apply(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/service"
)

// MenuItemsHandler manages the published daily menus.
type MenuItemsHandler struct {
	items MenuItemManager
}

// NewMenuItemsHandler constructs handler.
func NewMenuItemsHandler(items MenuItemManager) *MenuItemsHandler {
	return &MenuItemsHandler{items: items}
}

// Create POST /api/menu-items.
func (h *MenuItemsHandler) Create(c *fiber.Ctx) error {
	input, err := menuItemInput(c)
	if err != nil {
		return err
	}
	item, err := h.items.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": menuItemResponse(item)})
}

// Update PUT /api/menu-items/:id.
func (h *MenuItemsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "menu item")
	if err != nil {
		return err
	}
	input, err := menuItemInput(c)
	if err != nil {
		return err
	}
	item, err := h.items.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponse(item)})
}

// Delete DELETE /api/menu-items/:id.
func (h *MenuItemsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "menu item")
	if err != nil {
		return err
	}
	if err := h.items.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /api/menu-items/:id.
func (h *MenuItemsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "menu item")
	if err != nil {
		return err
	}
	item, err := h.items.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponse(item)})
}

// List GET /api/menu-items.
func (h *MenuItemsHandler) List(c *fiber.Ctx) error {
	items, err := h.items.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponses(items)})
}

// Today GET /api/menu-items/today.
func (h *MenuItemsHandler) Today(c *fiber.Ctx) error {
	items, err := h.items.ListToday(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponses(items)})
}

// ByHall GET /api/menu-items/hall/:hallName.
func (h *MenuItemsHandler) ByHall(c *fiber.Ctx) error {
	items, err := h.items.ListByHall(c.UserContext(), c.Params("hallName"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponses(items)})
}

// HallToday GET /api/menu-items/hall/:hallName/today.
func (h *MenuItemsHandler) HallToday(c *fiber.Ctx) error {
	items, err := h.items.ListHallToday(c.UserContext(), c.Params("hallName"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponses(items)})
}

func menuItemInput(c *fiber.Ctx) (service.MenuItemInput, error) {
	var req dto.MenuItemRequest
	if err := parseBody(c, &req); err != nil {
		return service.MenuItemInput{}, err
	}
	input := service.MenuItemInput{
		HallName: req.HallName,
		MealTime: req.MealTime,
		ItemName: req.ItemName,
		Price:    req.Price,
	}
	if req.Date != "" {
		day, err := parseDay(req.Date, "date")
		if err != nil {
			return service.MenuItemInput{}, err
		}
		input.Date = &day
	}
	return input, nil
}

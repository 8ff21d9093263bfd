package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/service"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// MealsHandler manages hall dining endpoints.
type MealsHandler struct {
	meals MealManager
}

// NewMealsHandler constructs handler.
func NewMealsHandler(meals MealManager) *MealsHandler {
	return &MealsHandler{meals: meals}
}

// Create POST /api/meals.
func (h *MealsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMealRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.HallID != "" {
		if _, err := bodyID(req.HallID, "hall"); err != nil {
			return err
		}
	}
	meal, err := h.meals.Create(c.UserContext(), service.CreateMealInput{
		HallID:      req.HallID,
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		MealDate:    req.MealDate,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mealResponse(meal)})
}

// Update PUT /api/meals/:id.
func (h *MealsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "meal")
	if err != nil {
		return err
	}
	var req dto.UpdateMealRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.HallID != nil {
		if _, err := bodyID(*req.HallID, "hall"); err != nil {
			return err
		}
	}
	meal, err := h.meals.Update(c.UserContext(), id, service.UpdateMealInput{
		HallID:      req.HallID,
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		MealDate:    req.MealDate,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponse(meal)})
}

// Delete DELETE /api/meals/:id.
func (h *MealsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "meal")
	if err != nil {
		return err
	}
	if err := h.meals.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /api/meals/:id.
func (h *MealsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "meal")
	if err != nil {
		return err
	}
	meal, err := h.meals.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponse(meal)})
}

// List GET /api/meals.
func (h *MealsHandler) List(c *fiber.Ctx) error {
	meals, err := h.meals.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

// Available GET /api/meals/available.
func (h *MealsHandler) Available(c *fiber.Ctx) error {
	meals, err := h.meals.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

// ByType GET /api/meals/type/:mealType.
func (h *MealsHandler) ByType(c *fiber.Ctx) error {
	meals, err := h.meals.ListByType(c.UserContext(), c.Params("mealType"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

// ByDateRange GET /api/meals/range?from=YYYY-MM-DD&to=YYYY-MM-DD. Both days
// are included.
func (h *MealsHandler) ByDateRange(c *fiber.Ctx) error {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" || rawTo == "" {
		return apperrors.NewValidationError("from and to are required", nil)
	}
	from, err := parseDay(rawFrom, "from")
	if err != nil {
		return err
	}
	to, err := parseDay(rawTo, "to")
	if err != nil {
		return err
	}
	meals, err := h.meals.ListByDateRange(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

// ByHall GET /api/meals/hall/:hallId.
func (h *MealsHandler) ByHall(c *fiber.Ctx) error {
	hallID, err := pathID(c, "hallId", "hall")
	if err != nil {
		return err
	}
	meals, err := h.meals.ListByHall(c.UserContext(), hallID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

// ByHallAndType GET /api/meals/hall/:hallId/type/:mealType.
func (h *MealsHandler) ByHallAndType(c *fiber.Ctx) error {
	hallID, err := pathID(c, "hallId", "hall")
	if err != nil {
		return err
	}
	meals, err := h.meals.ListByHallAndType(c.UserContext(), hallID, c.Params("mealType"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

// HallToday GET /api/meals/hall/:hallId/today.
func (h *MealsHandler) HallToday(c *fiber.Ctx) error {
	hallID, err := pathID(c, "hallId", "hall")
	if err != nil {
		return err
	}
	meals, err := h.meals.ListTodayByHall(c.UserContext(), hallID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

// HallAvailable GET /api/meals/hall/:hallId/available.
func (h *MealsHandler) HallAvailable(c *fiber.Ctx) error {
	hallID, err := pathID(c, "hallId", "hall")
	if err != nil {
		return err
	}
	meals, err := h.meals.ListAvailableByHall(c.UserContext(), hallID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mealResponses(meals)})
}

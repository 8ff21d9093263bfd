package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/service"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// HallsHandler manages hall directory endpoints.
type HallsHandler struct {
	halls HallManager
}

// NewHallsHandler constructs handler.
func NewHallsHandler(halls HallManager) *HallsHandler {
	return &HallsHandler{halls: halls}
}

// Create POST /api/halls.
func (h *HallsHandler) Create(c *fiber.Ctx) error {
	var req dto.HallRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hall, err := h.halls.Create(c.UserContext(), hallInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": hallResponse(hall)})
}

// Update PUT /api/halls/:id.
func (h *HallsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "hall")
	if err != nil {
		return err
	}
	var req dto.HallRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hall, err := h.halls.Update(c.UserContext(), id, hallInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponse(hall)})
}

// UpdateOccupancy PUT /api/halls/:id/occupancy.
func (h *HallsHandler) UpdateOccupancy(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "hall")
	if err != nil {
		return err
	}
	var req dto.OccupancyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Occupancy == nil {
		return apperrors.NewValidationError("occupancy is required", nil)
	}
	hall, err := h.halls.UpdateOccupancy(c.UserContext(), id, *req.Occupancy)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponse(hall)})
}

// Delete DELETE /api/halls/:id. The hall is deactivated, not removed.
func (h *HallsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "hall")
	if err != nil {
		return err
	}
	if err := h.halls.Deactivate(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /api/halls/:id.
func (h *HallsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "hall")
	if err != nil {
		return err
	}
	hall, err := h.halls.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponse(hall)})
}

// ByCode GET /api/halls/code/:hallCode.
func (h *HallsHandler) ByCode(c *fiber.Ctx) error {
	hall, err := h.halls.GetByCode(c.UserContext(), c.Params("hallCode"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponse(hall)})
}

// ByName GET /api/halls/name/:hallName.
func (h *HallsHandler) ByName(c *fiber.Ctx) error {
	hall, err := h.halls.GetByName(c.UserContext(), c.Params("hallName"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponse(hall)})
}

// ByFullName GET /api/halls/full-name/:fullName.
func (h *HallsHandler) ByFullName(c *fiber.Ctx) error {
	hall, err := h.halls.GetByFullName(c.UserContext(), c.Params("fullName"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponse(hall)})
}

// List GET /api/halls, including deactivated halls.
func (h *HallsHandler) List(c *fiber.Ctx) error {
	halls, err := h.halls.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponses(halls)})
}

// Active GET /api/halls/active.
func (h *HallsHandler) Active(c *fiber.Ctx) error {
	halls, err := h.halls.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponses(halls)})
}

// ByType GET /api/halls/type/:type.
func (h *HallsHandler) ByType(c *fiber.Ctx) error {
	halls, err := h.halls.ListByType(c.UserContext(), c.Params("type"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponses(halls)})
}

// Male GET /api/halls/male.
func (h *HallsHandler) Male(c *fiber.Ctx) error {
	halls, err := h.halls.ListMale(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponses(halls)})
}

// Female GET /api/halls/female.
func (h *HallsHandler) Female(c *fiber.Ctx) error {
	halls, err := h.halls.ListFemale(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": hallResponses(halls)})
}

// TotalCapacity GET /api/halls/statistics/capacity.
func (h *HallsHandler) TotalCapacity(c *fiber.Ctx) error {
	summary, err := h.halls.CapacitySummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary.TotalCapacity})
}

// TotalOccupancy GET /api/halls/statistics/occupancy.
func (h *HallsHandler) TotalOccupancy(c *fiber.Ctx) error {
	summary, err := h.halls.CapacitySummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary.TotalOccupancy})
}

// AvailableSeats GET /api/halls/statistics/available.
func (h *HallsHandler) AvailableSeats(c *fiber.Ctx) error {
	summary, err := h.halls.CapacitySummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary.AvailableSeats()})
}

// Summary GET /api/halls/statistics/summary.
func (h *HallsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.halls.CapacitySummary(c.UserContext())
	if err != nil {
		return err
	}
	stats, err := h.halls.TypeStatistics(c.UserContext())
	if err != nil {
		return err
	}

	byType := make([]dto.HallTypeStatResponse, 0, len(stats))
	for _, stat := range stats {
		byType = append(byType, dto.HallTypeStatResponse{
			Type:           stat.Type,
			HallCount:      stat.HallCount,
			TotalCapacity:  stat.TotalCapacity,
			TotalOccupancy: stat.TotalOccupancy,
			AvailableSeats: stat.TotalCapacity - stat.TotalOccupancy,
		})
	}
	return c.JSON(fiber.Map{"data": dto.HallSummaryResponse{
		HallCount:      summary.HallCount,
		TotalCapacity:  summary.TotalCapacity,
		TotalOccupancy: summary.TotalOccupancy,
		AvailableSeats: summary.AvailableSeats(),
		ByType:         byType,
	}})
}

func hallInput(req dto.HallRequest) service.HallInput {
	return service.HallInput{
		Code:             req.Code,
		Name:             req.Name,
		FullName:         req.FullName,
		Type:             req.Type,
		Capacity:         req.Capacity,
		CurrentOccupancy: req.CurrentOccupancy,
		Provost:          req.Provost,
		Email:            req.Email,
		Phone:            req.Phone,
		OfficeLocation:   req.OfficeLocation,
		OfficeHours:      req.OfficeHours,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		Facilities:       req.Facilities,
		IsActive:         req.IsActive,
	}
}

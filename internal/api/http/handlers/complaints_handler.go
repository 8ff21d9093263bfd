package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/service"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints. Students see only their own
// complaints; administrators see all of them.
type ComplaintsHandler struct {
	complaints ComplaintManager
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints ComplaintManager) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	owner := caller.ID
	if isAdmin(caller) && req.UserID != "" {
		if owner, err = bodyID(req.UserID, "user"); err != nil {
			return err
		}
	}

	complaint, err := h.complaints.Create(c.UserContext(), service.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		UserID:      owner,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "complaint")
	if err != nil {
		return err
	}
	complaint, err := h.complaints.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := ensureOwnerOrAdmin(caller, complaint.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// ByUser GET /api/complaints/user/:userId.
func (h *ComplaintsHandler) ByUser(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId", "user")
	if err != nil {
		return err
	}
	if err := ensureOwnerOrAdmin(caller, userID); err != nil {
		return err
	}
	complaints, err := h.complaints.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// ByStatus GET /api/complaints/status/:status.
func (h *ComplaintsHandler) ByStatus(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// ByCategory GET /api/complaints/category/:category.
func (h *ComplaintsHandler) ByCategory(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// ByPriority GET /api/complaints/priority/:priority.
func (h *ComplaintsHandler) ByPriority(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListByPriority(c.UserContext(), c.Params("priority"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// UpdateStatus PUT /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "complaint")
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), id, service.StatusUpdateInput{
		Status:        req.Status,
		UpdatedBy:     orDefault(req.UpdatedBy, caller.ID),
		Note:          req.Note,
		AdminResponse: req.AdminResponse,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Respond POST /api/complaints/:id/response.
func (h *ComplaintsHandler) Respond(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "complaint")
	if err != nil {
		return err
	}
	var req dto.AdminResponseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.SetAdminResponse(c.UserContext(), id, req.Response, orDefault(req.RespondedBy, caller.ID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// AddNote POST /api/complaints/:id/notes.
func (h *ComplaintsHandler) AddNote(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "complaint")
	if err != nil {
		return err
	}
	var req dto.NoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	author := caller.ID
	if isAdmin(caller) {
		author = orDefault(req.AuthorID, caller.ID)
	} else {
		existing, err := h.complaints.GetByID(c.UserContext(), id)
		if err != nil {
			return err
		}
		if err := ensureOwnerOrAdmin(caller, existing.UserID); err != nil {
			return err
		}
	}

	complaint, err := h.complaints.AddNote(c.UserContext(), id, req.Note, author)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Delete DELETE /api/complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "complaint")
	if err != nil {
		return err
	}
	if err := h.complaints.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func ensureOwnerOrAdmin(caller *domain.User, ownerID string) error {
	if caller.ID == ownerID || isAdmin(caller) {
		return nil
	}
	return apperrors.NewForbidden("complaint belongs to another user")
}

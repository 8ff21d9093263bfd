package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sust-hall/hall-service/internal/api/dto"
	"github.com/sust-hall/hall-service/internal/auth"
	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/service"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// AccountManager is the account surface the handlers depend on.
type AccountManager interface {
	Register(ctx context.Context, input service.RegisterInput) (*domain.User, error)
	CreateUser(ctx context.Context, input service.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input service.UserInput) (*domain.User, error)
	Approve(ctx context.Context, id string) (*domain.User, error)
	Reject(ctx context.Context, id string) (*domain.User, error)
	Suspend(ctx context.Context, id string) (*domain.User, error)
	Activate(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]domain.User, error)
	ListByStatus(ctx context.Context, status string) ([]domain.User, error)
	ListPending(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	ListByHall(ctx context.Context, hallName string) ([]domain.User, error)
	HallNames(ctx context.Context) ([]string, error)
	HallStatistics(ctx context.Context) ([]domain.HallStatistic, error)
}

// ComplaintManager is the complaint surface the handlers depend on.
type ComplaintManager interface {
	Create(ctx context.Context, input service.CreateComplaintInput) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, input service.StatusUpdateInput) (*domain.Complaint, error)
	SetAdminResponse(ctx context.Context, id, response, respondedBy string) (*domain.Complaint, error)
	AddNote(ctx context.Context, id, note, authorID string) (*domain.Complaint, error)
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Complaint, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Complaint, error)
	ListByPriority(ctx context.Context, priority string) ([]domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	Delete(ctx context.Context, id string) error
}

// HallManager is the hall surface the handlers depend on.
type HallManager interface {
	Create(ctx context.Context, input service.HallInput) (*domain.Hall, error)
	Update(ctx context.Context, id string, input service.HallInput) (*domain.Hall, error)
	Deactivate(ctx context.Context, id string) error
	UpdateOccupancy(ctx context.Context, id string, occupancy int) (*domain.Hall, error)
	GetByID(ctx context.Context, id string) (*domain.Hall, error)
	GetByCode(ctx context.Context, code string) (*domain.Hall, error)
	GetByName(ctx context.Context, name string) (*domain.Hall, error)
	GetByFullName(ctx context.Context, fullName string) (*domain.Hall, error)
	ListAll(ctx context.Context) ([]domain.Hall, error)
	ListActive(ctx context.Context) ([]domain.Hall, error)
	ListByType(ctx context.Context, rawType string) ([]domain.Hall, error)
	ListMale(ctx context.Context) ([]domain.Hall, error)
	ListFemale(ctx context.Context) ([]domain.Hall, error)
	CapacitySummary(ctx context.Context) (domain.HallCapacitySummary, error)
	TypeStatistics(ctx context.Context) ([]domain.HallTypeStatistic, error)
}

// MealManager is the meal surface the handlers depend on.
type MealManager interface {
	Create(ctx context.Context, input service.CreateMealInput) (*domain.Meal, error)
	Update(ctx context.Context, id string, input service.UpdateMealInput) (*domain.Meal, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Meal, error)
	ListAll(ctx context.Context) ([]domain.Meal, error)
	ListByHall(ctx context.Context, hallID string) ([]domain.Meal, error)
	ListByHallAndType(ctx context.Context, hallID, rawType string) ([]domain.Meal, error)
	ListTodayByHall(ctx context.Context, hallID string) ([]domain.Meal, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error)
	ListAvailable(ctx context.Context) ([]domain.Meal, error)
	ListAvailableByHall(ctx context.Context, hallID string) ([]domain.Meal, error)
	ListByType(ctx context.Context, rawType string) ([]domain.Meal, error)
}

// MenuItemManager is the daily menu surface the handlers depend on.
type MenuItemManager interface {
	Create(ctx context.Context, input service.MenuItemInput) (*domain.MenuItem, error)
	Update(ctx context.Context, id string, input service.MenuItemInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	ListToday(ctx context.Context) ([]domain.MenuItem, error)
	ListByHall(ctx context.Context, hallName string) ([]domain.MenuItem, error)
	ListHallToday(ctx context.Context, hallName string) ([]domain.MenuItem, error)
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// pathID reads a UUID path parameter. A malformed id names nothing that can
// exist, so it is reported as not found.
func pathID(c *fiber.Ctx, name, resource string) (string, error) {
	raw := c.Params(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewNotFound(resource, map[string]any{"id": raw})
	}
	return raw, nil
}

// bodyID validates an id supplied in a request body the way pathID does.
func bodyID(raw, resource string) (string, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewNotFound(resource, map[string]any{"id": raw})
	}
	return raw, nil
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func isAdmin(user *domain.User) bool {
	for _, role := range auth.AdminRoles {
		if user.Role == role {
			return true
		}
	}
	return false
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		HallName:      user.HallName,
		Role:          user.Role,
		AccountStatus: user.AccountStatus,
		CreatedAt:     user.CreatedAt,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	return resp
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	notes := make([]dto.NoteResponse, 0, len(complaint.Notes))
	for _, note := range complaint.Notes {
		notes = append(notes, dto.NoteResponse{
			ID:        note.ID,
			Note:      note.Note,
			AuthorID:  note.AuthorID,
			CreatedAt: note.CreatedAt,
		})
	}
	return dto.ComplaintResponse{
		ID:            complaint.ID,
		Title:         complaint.Title,
		Description:   complaint.Description,
		Category:      complaint.Category,
		Priority:      complaint.Priority,
		Status:        complaint.Status,
		UserID:        complaint.UserID,
		UserName:      complaint.UserName,
		AdminResponse: complaint.AdminResponse,
		RespondedBy:   complaint.RespondedBy,
		CreatedAt:     complaint.CreatedAt,
		UpdatedAt:     complaint.UpdatedAt,
		ResolvedAt:    complaint.ResolvedAt,
		Notes:         notes,
	}
}

func complaintResponses(complaints []domain.Complaint) []dto.ComplaintResponse {
	resp := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		resp = append(resp, complaintResponse(&complaints[i]))
	}
	return resp
}

func hallResponse(hall *domain.Hall) dto.HallResponse {
	return dto.HallResponse{
		ID:               hall.ID,
		Code:             hall.Code,
		Name:             hall.Name,
		FullName:         hall.FullName,
		Type:             hall.Type,
		Capacity:         hall.Capacity,
		CurrentOccupancy: hall.CurrentOccupancy,
		AvailableSeats:   hall.AvailableSeats(),
		Provost:          hall.Provost,
		Email:            hall.Email,
		Phone:            hall.Phone,
		OfficeLocation:   hall.OfficeLocation,
		OfficeHours:      hall.OfficeHours,
		Description:      hall.Description,
		ImageURL:         hall.ImageURL,
		Facilities:       hall.Facilities,
		IsActive:         hall.IsActive,
		CreatedAt:        hall.CreatedAt,
		UpdatedAt:        hall.UpdatedAt,
	}
}

func hallResponses(halls []domain.Hall) []dto.HallResponse {
	resp := make([]dto.HallResponse, 0, len(halls))
	for i := range halls {
		resp = append(resp, hallResponse(&halls[i]))
	}
	return resp
}

func mealResponse(meal *domain.Meal) dto.MealResponse {
	return dto.MealResponse{
		ID:          meal.ID,
		HallID:      meal.HallID,
		HallName:    meal.HallName,
		Type:        meal.Type,
		Name:        meal.Name,
		Description: meal.Description,
		Price:       meal.Price,
		Quantity:    meal.Quantity,
		MealDate:    meal.MealDate,
		IsAvailable: meal.IsAvailable,
		CreatedAt:   meal.CreatedAt,
		UpdatedAt:   meal.UpdatedAt,
	}
}

func mealResponses(meals []domain.Meal) []dto.MealResponse {
	resp := make([]dto.MealResponse, 0, len(meals))
	for i := range meals {
		resp = append(resp, mealResponse(&meals[i]))
	}
	return resp
}

func menuItemResponse(item *domain.MenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{
		ID:        item.ID,
		HallName:  item.HallName,
		MealTime:  item.MealTime,
		ItemName:  item.ItemName,
		Price:     item.Price,
		Date:      item.Date.Format(time.DateOnly),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func menuItemResponses(items []domain.MenuItem) []dto.MenuItemResponse {
	resp := make([]dto.MenuItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, menuItemResponse(&items[i]))
	}
	return resp
}

// parseDay reads a YYYY-MM-DD value.
func parseDay(raw, field string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date", map[string]any{field: raw})
	}
	return day, nil
}

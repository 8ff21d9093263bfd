package http

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/service"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

type stubHalls struct {
	halls map[string]*domain.Hall
}

func (s *stubHalls) active(id string) (*domain.Hall, error) {
	hall, ok := s.halls[id]
	if !ok || !hall.IsActive {
		return nil, apperrors.NewNotFound("hall", map[string]any{"id": id})
	}
	return hall, nil
}

func (s *stubHalls) Create(_ context.Context, input service.HallInput) (*domain.Hall, error) {
	for _, hall := range s.halls {
		if hall.Code == input.Code {
			return nil, apperrors.NewConflict("hall code already exists", map[string]any{"hall_code": input.Code})
		}
	}
	hall := &domain.Hall{
		ID:               uuid.NewString(),
		Code:             input.Code,
		Name:             input.Name,
		Type:             domain.HallType(input.Type),
		Capacity:         input.Capacity,
		CurrentOccupancy: input.CurrentOccupancy,
		IsActive:         true,
	}
	s.halls[hall.ID] = hall
	return hall, nil
}

func (s *stubHalls) Update(_ context.Context, id string, input service.HallInput) (*domain.Hall, error) {
	hall, ok := s.halls[id]
	if !ok {
		return nil, apperrors.NewNotFound("hall", map[string]any{"id": id})
	}
	hall.Name = input.Name
	return hall, nil
}

func (s *stubHalls) Deactivate(_ context.Context, id string) error {
	hall, err := s.active(id)
	if err != nil {
		return err
	}
	hall.IsActive = false
	return nil
}

func (s *stubHalls) UpdateOccupancy(_ context.Context, id string, occupancy int) (*domain.Hall, error) {
	hall, err := s.active(id)
	if err != nil {
		return nil, err
	}
	if !hall.OccupancyFits(occupancy) {
		return nil, apperrors.NewValidationError("occupancy must be between 0 and capacity", nil)
	}
	hall.CurrentOccupancy = occupancy
	return hall, nil
}

func (s *stubHalls) GetByID(_ context.Context, id string) (*domain.Hall, error) {
	return s.active(id)
}

func (s *stubHalls) find(match func(*domain.Hall) bool) (*domain.Hall, error) {
	for _, hall := range s.halls {
		if hall.IsActive && match(hall) {
			return hall, nil
		}
	}
	return nil, apperrors.NewNotFound("hall", nil)
}

func (s *stubHalls) GetByCode(_ context.Context, code string) (*domain.Hall, error) {
	return s.find(func(h *domain.Hall) bool { return h.Code == code })
}

func (s *stubHalls) GetByName(_ context.Context, name string) (*domain.Hall, error) {
	return s.find(func(h *domain.Hall) bool { return h.Name == name })
}

func (s *stubHalls) GetByFullName(_ context.Context, fullName string) (*domain.Hall, error) {
	return s.find(func(h *domain.Hall) bool { return h.FullName == fullName })
}

func (s *stubHalls) list(keep func(*domain.Hall) bool) []domain.Hall {
	out := []domain.Hall{}
	for _, hall := range s.halls {
		if keep(hall) {
			out = append(out, *hall)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *stubHalls) ListAll(context.Context) ([]domain.Hall, error) {
	return s.list(func(*domain.Hall) bool { return true }), nil
}

func (s *stubHalls) ListActive(context.Context) ([]domain.Hall, error) {
	return s.list(func(h *domain.Hall) bool { return h.IsActive }), nil
}

func (s *stubHalls) ListByType(_ context.Context, rawType string) ([]domain.Hall, error) {
	hallType, ok := domain.ParseHallType(rawType)
	if !ok {
		return nil, apperrors.NewValidationError("unknown hall type", nil)
	}
	return s.list(func(h *domain.Hall) bool { return h.IsActive && h.Type == hallType }), nil
}

func (s *stubHalls) ListMale(ctx context.Context) ([]domain.Hall, error) {
	return s.ListByType(ctx, string(domain.HallTypeMale))
}

func (s *stubHalls) ListFemale(ctx context.Context) ([]domain.Hall, error) {
	return s.ListByType(ctx, string(domain.HallTypeFemale))
}

func (s *stubHalls) CapacitySummary(context.Context) (domain.HallCapacitySummary, error) {
	var summary domain.HallCapacitySummary
	for _, hall := range s.halls {
		if hall.IsActive {
			summary.HallCount++
			summary.TotalCapacity += hall.Capacity
			summary.TotalOccupancy += hall.CurrentOccupancy
		}
	}
	return summary, nil
}

func (s *stubHalls) TypeStatistics(context.Context) ([]domain.HallTypeStatistic, error) {
	byType := map[domain.HallType]*domain.HallTypeStatistic{}
	for _, hall := range s.halls {
		if !hall.IsActive {
			continue
		}
		stat, ok := byType[hall.Type]
		if !ok {
			stat = &domain.HallTypeStatistic{Type: hall.Type}
			byType[hall.Type] = stat
		}
		stat.HallCount++
		stat.TotalCapacity += hall.Capacity
		stat.TotalOccupancy += hall.CurrentOccupancy
	}
	out := []domain.HallTypeStatistic{}
	for _, stat := range byType {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

type stubMeals struct {
	halls    *stubHalls
	meals    map[string]*domain.Meal
	lastFrom time.Time
	lastTo   time.Time
}

func (s *stubMeals) Create(_ context.Context, input service.CreateMealInput) (*domain.Meal, error) {
	if input.HallID == "" {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{"HallID": "required"})
	}
	hall, err := s.halls.active(input.HallID)
	if err != nil {
		return nil, err
	}
	meal := &domain.Meal{
		ID:          uuid.NewString(),
		HallID:      hall.ID,
		HallName:    hall.Name,
		Type:        domain.MealType(input.Type),
		Name:        input.Name,
		Price:       input.Price,
		IsAvailable: true,
	}
	s.meals[meal.ID] = meal
	return meal, nil
}

func (s *stubMeals) get(id string) (*domain.Meal, error) {
	meal, ok := s.meals[id]
	if !ok {
		return nil, apperrors.NewNotFound("meal", map[string]any{"id": id})
	}
	return meal, nil
}

func (s *stubMeals) Update(_ context.Context, id string, input service.UpdateMealInput) (*domain.Meal, error) {
	meal, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if input.Price != nil {
		meal.Price = *input.Price
	}
	return meal, nil
}

func (s *stubMeals) Delete(_ context.Context, id string) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	delete(s.meals, id)
	return nil
}

func (s *stubMeals) GetByID(_ context.Context, id string) (*domain.Meal, error) {
	return s.get(id)
}

func (s *stubMeals) list(keep func(*domain.Meal) bool) []domain.Meal {
	out := []domain.Meal{}
	for _, meal := range s.meals {
		if keep(meal) {
			out = append(out, *meal)
		}
	}
	return out
}

func (s *stubMeals) byHall(hallID string, keep func(*domain.Meal) bool) ([]domain.Meal, error) {
	if _, err := s.halls.active(hallID); err != nil {
		return nil, err
	}
	return s.list(func(m *domain.Meal) bool { return m.HallID == hallID && keep(m) }), nil
}

func (s *stubMeals) ListAll(context.Context) ([]domain.Meal, error) {
	return s.list(func(*domain.Meal) bool { return true }), nil
}

func (s *stubMeals) ListByHall(_ context.Context, hallID string) ([]domain.Meal, error) {
	return s.byHall(hallID, func(*domain.Meal) bool { return true })
}

func (s *stubMeals) ListByHallAndType(_ context.Context, hallID, rawType string) ([]domain.Meal, error) {
	return s.byHall(hallID, func(m *domain.Meal) bool { return string(m.Type) == rawType })
}

func (s *stubMeals) ListTodayByHall(_ context.Context, hallID string) ([]domain.Meal, error) {
	return s.byHall(hallID, func(*domain.Meal) bool { return true })
}

func (s *stubMeals) ListByDateRange(_ context.Context, from, to time.Time) ([]domain.Meal, error) {
	s.lastFrom, s.lastTo = from, to
	return s.list(func(*domain.Meal) bool { return true }), nil
}

func (s *stubMeals) ListAvailable(context.Context) ([]domain.Meal, error) {
	return s.list(func(m *domain.Meal) bool { return m.IsAvailable }), nil
}

func (s *stubMeals) ListAvailableByHall(_ context.Context, hallID string) ([]domain.Meal, error) {
	return s.byHall(hallID, func(m *domain.Meal) bool { return m.IsAvailable })
}

func (s *stubMeals) ListByType(_ context.Context, rawType string) ([]domain.Meal, error) {
	return s.list(func(m *domain.Meal) bool { return string(m.Type) == rawType }), nil
}

type stubMenu struct {
	items     map[string]*domain.MenuItem
	lastInput service.MenuItemInput
	lastHall  string
}

func (s *stubMenu) Create(_ context.Context, input service.MenuItemInput) (*domain.MenuItem, error) {
	s.lastInput = input
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if input.Date != nil {
		date = *input.Date
	}
	item := &domain.MenuItem{
		ID:       uuid.NewString(),
		HallName: input.HallName,
		MealTime: domain.MealType(input.MealTime),
		ItemName: input.ItemName,
		Price:    input.Price,
		Date:     date,
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubMenu) get(id string) (*domain.MenuItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("menu item", map[string]any{"id": id})
	}
	return item, nil
}

func (s *stubMenu) Update(_ context.Context, id string, input service.MenuItemInput) (*domain.MenuItem, error) {
	s.lastInput = input
	item, err := s.get(id)
	if err != nil {
		return nil, err
	}
	item.ItemName = input.ItemName
	return item, nil
}

func (s *stubMenu) Delete(_ context.Context, id string) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	delete(s.items, id)
	return nil
}

func (s *stubMenu) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	return s.get(id)
}

func (s *stubMenu) list(keep func(*domain.MenuItem) bool) []domain.MenuItem {
	out := []domain.MenuItem{}
	for _, item := range s.items {
		if keep(item) {
			out = append(out, *item)
		}
	}
	return out
}

func (s *stubMenu) ListAll(context.Context) ([]domain.MenuItem, error) {
	return s.list(func(*domain.MenuItem) bool { return true }), nil
}

func (s *stubMenu) ListToday(context.Context) ([]domain.MenuItem, error) {
	return s.list(func(*domain.MenuItem) bool { return true }), nil
}

func (s *stubMenu) ListByHall(_ context.Context, hallName string) ([]domain.MenuItem, error) {
	s.lastHall = hallName
	return s.list(func(i *domain.MenuItem) bool { return i.HallName == hallName }), nil
}

func (s *stubMenu) ListHallToday(ctx context.Context, hallName string) ([]domain.MenuItem, error) {
	return s.ListByHall(ctx, hallName)
}

func (s *testServer) canteenManager(t *testing.T) string {
	t.Helper()
	manager := &domain.User{ID: uuid.NewString(), Name: "Canteen", Email: "canteen@sust.edu", Role: domain.UserRoleCanteenManager, AccountStatus: domain.AccountStatusApproved}
	s.accounts.users[manager.ID] = manager
	return s.token(t, manager)
}

func sphPayload() map[string]any {
	return map[string]any{
		"hall_code": "SPH", "hall_name": "Shah Paran Hall", "type": "MALE", "capacity": 300, "current_occupancy": 120,
	}
}

func TestHallRoutesCreateAndConflict(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.token(t, s.admin)

	status, body := s.do(t, "POST", "/api/halls", sphPayload(), s.token(t, s.student))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, errorCode(body))

	status, body = s.do(t, "POST", "/api/halls", sphPayload(), adminToken)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "SPH", dataMap(body)["hall_code"])
	assert.EqualValues(t, 180, dataMap(body)["available_seats"])

	status, body = s.do(t, "POST", "/api/halls", sphPayload(), adminToken)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, apperrors.CodeConflict, errorCode(body))
	assert.Len(t, s.halls.halls, 1)
}

func TestHallRoutesOccupancy(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.token(t, s.admin)
	_, body := s.do(t, "POST", "/api/halls", sphPayload(), adminToken)
	hallID, _ := dataMap(body)["id"].(string)
	require.NotEmpty(t, hallID)

	status, body := s.do(t, "PUT", "/api/halls/"+hallID+"/occupancy", map[string]int{"occupancy": 301}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errorCode(body))

	status, body = s.do(t, "PUT", "/api/halls/"+hallID+"/occupancy", map[string]int{"occupancy": -1}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errorCode(body))

	status, body = s.do(t, "PUT", "/api/halls/"+hallID+"/occupancy", map[string]any{}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errorCode(body))

	status, body = s.do(t, "PUT", "/api/halls/"+hallID+"/occupancy", map[string]int{"occupancy": 0}, adminToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 300, dataMap(body)["available_seats"])

	status, _ = s.do(t, "PUT", "/api/halls/"+hallID+"/occupancy", map[string]int{"occupancy": 10}, s.token(t, s.student))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestHallRoutesUnknownHallIsNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.token(t, s.admin)

	for _, path := range []string{"/api/halls/" + uuid.NewString(), "/api/halls/not-a-uuid", "/api/halls/code/XYZ"} {
		status, body := s.do(t, "GET", path, nil, adminToken)
		assert.Equal(t, fiber.StatusNotFound, status, path)
		assert.Equal(t, apperrors.CodeNotFound, errorCode(body), path)
	}

	status, _ := s.do(t, "PUT", "/api/halls/"+uuid.NewString()+"/occupancy", map[string]int{"occupancy": 1}, adminToken)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHallRoutesStaticSegmentsMatchBeforeID(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.token(t, s.admin)
	s.do(t, "POST", "/api/halls", sphPayload(), adminToken)
	s.do(t, "POST", "/api/halls", map[string]any{
		"hall_code": "BAH", "hall_name": "Begum Ayesha Hall", "type": "FEMALE", "capacity": 200, "current_occupancy": 150,
	}, adminToken)
	studentToken := s.token(t, s.student)

	status, body := s.do(t, "GET", "/api/halls/statistics/summary", nil, studentToken)
	require.Equal(t, fiber.StatusOK, status)
	summary := dataMap(body)
	assert.EqualValues(t, 2, summary["hall_count"])
	assert.EqualValues(t, 500, summary["total_capacity"])
	assert.EqualValues(t, 230, summary["available_seats"])
	assert.Len(t, summary["by_type"], 2)

	status, body = s.do(t, "GET", "/api/halls/statistics/available", nil, studentToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 230, body["data"])

	status, body = s.do(t, "GET", "/api/halls/female", nil, studentToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = s.do(t, "GET", "/api/halls/name/Shah%20Paran%20Hall", nil, studentToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "SPH", dataMap(body)["hall_code"])

	status, body = s.do(t, "GET", "/api/halls/type/unisex", nil, studentToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errorCode(body))
}

func TestHallRoutesDeleteDeactivates(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.token(t, s.admin)
	_, body := s.do(t, "POST", "/api/halls", sphPayload(), adminToken)
	hallID, _ := dataMap(body)["id"].(string)

	status, _ := s.do(t, "DELETE", "/api/halls/"+hallID, nil, adminToken)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.False(t, s.halls.halls[hallID].IsActive)

	status, _ = s.do(t, "GET", "/api/halls/"+hallID, nil, adminToken)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, "GET", "/api/halls", nil, adminToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = s.do(t, "GET", "/api/halls/active", nil, adminToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"])
}

func TestMealRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	_, body := s.do(t, "POST", "/api/halls", sphPayload(), s.token(t, s.admin))
	hallID, _ := dataMap(body)["id"].(string)
	managerToken := s.canteenManager(t)
	meal := map[string]any{"hall_id": hallID, "meal_type": "LUNCH", "meal_name": "Khichuri", "price": 45}

	status, _ := s.do(t, "POST", "/api/meals", meal, s.token(t, s.student))
	assert.Equal(t, fiber.StatusForbidden, status)

	for _, ghost := range []string{uuid.NewString(), "ghost"} {
		status, body = s.do(t, "POST", "/api/meals", map[string]any{"hall_id": ghost, "meal_type": "LUNCH", "meal_name": "Rice"}, managerToken)
		assert.Equal(t, fiber.StatusNotFound, status, ghost)
		assert.Equal(t, apperrors.CodeNotFound, errorCode(body), ghost)
	}

	status, body = s.do(t, "POST", "/api/meals", map[string]any{"meal_type": "LUNCH", "meal_name": "Rice"}, managerToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errorCode(body))

	status, body = s.do(t, "POST", "/api/meals", meal, managerToken)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Shah Paran Hall", dataMap(body)["hall_name"])
	mealID, _ := dataMap(body)["id"].(string)

	status, body = s.do(t, "PUT", "/api/meals/"+mealID, map[string]any{"price": 50.5}, managerToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 50.5, dataMap(body)["price"])

	status, body = s.do(t, "GET", "/api/meals/available", nil, s.token(t, s.student))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = s.do(t, "GET", "/api/meals/hall/"+hallID+"/type/LUNCH", nil, s.token(t, s.student))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = s.do(t, "GET", "/api/meals/hall/"+uuid.NewString()+"/today", nil, s.token(t, s.student))
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, "DELETE", "/api/meals/"+mealID, nil, managerToken)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, "GET", "/api/meals/"+mealID, nil, managerToken)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestMealRangeRouteParsesDays(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, s.student)

	status, _ := s.do(t, "GET", "/api/meals/range?from=2024-03-01&to=2024-03-07", nil, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), s.meals.lastFrom)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), s.meals.lastTo)

	for _, query := range []string{"?from=2024-03-01", "?from=01/03/2024&to=2024-03-07"} {
		status, body := s.do(t, "GET", "/api/meals/range"+query, nil, token)
		assert.Equal(t, fiber.StatusBadRequest, status, query)
		assert.Equal(t, apperrors.CodeValidation, errorCode(body), query)
	}
}

func TestMenuItemRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	managerToken := s.canteenManager(t)
	studentToken := s.token(t, s.student)
	item := map[string]any{"hall_name": "Shah Paran Hall", "meal_time": "DINNER", "item_name": "Beef Curry", "price": 90, "date": "2024-03-05"}

	status, _ := s.do(t, "POST", "/api/menu-items", item, studentToken)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := s.do(t, "POST", "/api/menu-items", item, managerToken)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "2024-03-05", dataMap(body)["date"])
	require.NotNil(t, s.menu.lastInput.Date)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *s.menu.lastInput.Date)
	itemID, _ := dataMap(body)["id"].(string)

	item["date"] = "05/03/2024"
	status, body = s.do(t, "POST", "/api/menu-items", item, managerToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errorCode(body))

	delete(item, "date")
	status, _ = s.do(t, "POST", "/api/menu-items", item, managerToken)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Nil(t, s.menu.lastInput.Date)

	status, body = s.do(t, "GET", "/api/menu-items/hall/Shah%20Paran%20Hall", nil, studentToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Shah Paran Hall", s.menu.lastHall)
	assert.Len(t, body["data"], 2)

	status, _ = s.do(t, "GET", "/api/menu-items/today", nil, studentToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, "DELETE", "/api/menu-items/"+itemID, nil, managerToken)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, body = s.do(t, "DELETE", "/api/menu-items/"+itemID, nil, managerToken)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, errorCode(body))
}

package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/repository"
)

type fakeHallRepo struct {
	store   *memStore
	listErr error
}

func (r *fakeHallRepo) Create(_ context.Context, hall *domain.Hall) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.halls {
		if existing.Code == hall.Code || strings.EqualFold(existing.Name, hall.Name) {
			return repository.ErrDuplicate
		}
	}
	hall.ID = r.store.nextID("hall")
	r.store.halls[hall.ID] = *hall
	return nil
}

func (r *fakeHallRepo) Update(_ context.Context, hall *domain.Hall) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.halls[hall.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.store.halls[hall.ID] = *hall
	return nil
}

func (r *fakeHallRepo) GetByID(_ context.Context, id string) (*domain.Hall, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	hall, ok := r.store.halls[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &hall, nil
}

func (r *fakeHallRepo) findActive(match func(domain.Hall) bool) (*domain.Hall, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, hall := range r.store.halls {
		if hall.IsActive && match(hall) {
			h := hall
			return &h, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeHallRepo) GetActiveByCode(_ context.Context, code string) (*domain.Hall, error) {
	return r.findActive(func(h domain.Hall) bool { return h.Code == code })
}

func (r *fakeHallRepo) GetActiveByName(_ context.Context, name string) (*domain.Hall, error) {
	return r.findActive(func(h domain.Hall) bool { return strings.EqualFold(h.Name, name) })
}

func (r *fakeHallRepo) GetActiveByFullName(_ context.Context, fullName string) (*domain.Hall, error) {
	return r.findActive(func(h domain.Hall) bool { return strings.EqualFold(h.FullName, fullName) })
}

func (r *fakeHallRepo) taken(match func(domain.Hall) bool, exceptID string) bool {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, hall := range r.store.halls {
		if id != exceptID && match(hall) {
			return true
		}
	}
	return false
}

func (r *fakeHallRepo) CodeTaken(_ context.Context, code, exceptID string) (bool, error) {
	return r.taken(func(h domain.Hall) bool { return h.Code == code }, exceptID), nil
}

func (r *fakeHallRepo) NameTaken(_ context.Context, name, exceptID string) (bool, error) {
	return r.taken(func(h domain.Hall) bool { return strings.EqualFold(h.Name, name) }, exceptID), nil
}

func (r *fakeHallRepo) List(_ context.Context, filter repository.HallFilter) ([]domain.Hall, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Hall
	for _, hall := range r.store.halls {
		if !filter.IncludeInactive && !hall.IsActive {
			continue
		}
		if filter.Type != nil && hall.Type != *filter.Type {
			continue
		}
		out = append(out, hall)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeHallRepo) UpdateOccupancy(_ context.Context, id string, occupancy int, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	hall, ok := r.store.halls[id]
	if !ok {
		return pgx.ErrNoRows
	}
	hall.CurrentOccupancy = occupancy
	hall.UpdatedAt = at
	r.store.halls[id] = hall
	return nil
}

func (r *fakeHallRepo) Deactivate(_ context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	hall, ok := r.store.halls[id]
	if !ok || !hall.IsActive {
		return pgx.ErrNoRows
	}
	hall.IsActive = false
	hall.UpdatedAt = at
	r.store.halls[id] = hall
	return nil
}

func (r *fakeHallRepo) CapacitySummary(_ context.Context) (domain.HallCapacitySummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var summary domain.HallCapacitySummary
	for _, hall := range r.store.halls {
		if !hall.IsActive {
			continue
		}
		summary.HallCount++
		summary.TotalCapacity += hall.Capacity
		summary.TotalOccupancy += hall.CurrentOccupancy
	}
	return summary, nil
}

func (r *fakeHallRepo) TypeStatistics(_ context.Context) ([]domain.HallTypeStatistic, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byType := map[domain.HallType]*domain.HallTypeStatistic{}
	for _, hall := range r.store.halls {
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
	out := make([]domain.HallTypeStatistic, 0, len(byType))
	for _, stat := range byType {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

type fakeMealRepo struct {
	store      *memStore
	lastFilter repository.MealFilter
}

func (r *fakeMealRepo) Create(_ context.Context, meal *domain.Meal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	meal.ID = r.store.nextID("meal")
	r.store.meals[meal.ID] = *meal
	return nil
}

func (r *fakeMealRepo) Update(_ context.Context, meal *domain.Meal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.meals[meal.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.store.meals[meal.ID] = *meal
	return nil
}

func (r *fakeMealRepo) GetByID(_ context.Context, id string) (*domain.Meal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	meal, ok := r.store.meals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if hall, ok := r.store.halls[meal.HallID]; ok {
		meal.HallName = hall.Name
	}
	return &meal, nil
}

func (r *fakeMealRepo) List(_ context.Context, filter repository.MealFilter) ([]domain.Meal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.lastFilter = filter
	var out []domain.Meal
	for _, meal := range r.store.meals {
		if filter.HallID != nil && meal.HallID != *filter.HallID {
			continue
		}
		if filter.Type != nil && meal.Type != *filter.Type {
			continue
		}
		if filter.AvailableOnly && !meal.IsAvailable {
			continue
		}
		if filter.From != nil && meal.MealDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !meal.MealDate.Before(*filter.To) {
			continue
		}
		out = append(out, meal)
	}
	sort.Slice(out, func(i, j int) bool {
		switch filter.Order {
		case repository.MealOrderOldest:
			return out[i].MealDate.Before(out[j].MealDate)
		case repository.MealOrderByType:
			return out[i].Type < out[j].Type
		default:
			return out[i].MealDate.After(out[j].MealDate)
		}
	})
	return out, nil
}

func (r *fakeMealRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.meals[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.meals, id)
	return nil
}

type fakeMenuItemRepo struct {
	store     *memStore
	createErr error
}

func (r *fakeMenuItemRepo) Create(_ context.Context, item *domain.MenuItem) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item.ID = r.store.nextID("menu")
	r.store.menuItems[item.ID] = *item
	return nil
}

func (r *fakeMenuItemRepo) Update(_ context.Context, item *domain.MenuItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.menuItems[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.store.menuItems[item.ID] = *item
	return nil
}

func (r *fakeMenuItemRepo) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item, ok := r.store.menuItems[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (r *fakeMenuItemRepo) List(_ context.Context, filter repository.MenuItemFilter) ([]domain.MenuItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.MenuItem
	for _, item := range r.store.menuItems {
		if filter.HallName != nil && item.HallName != *filter.HallName {
			continue
		}
		if filter.Date != nil && !item.Date.Equal(domain.StartOfDay(*filter.Date)) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out, nil
}

func (r *fakeMenuItemRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.menuItems[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.menuItems, id)
	return nil
}

var errStoreDown = errors.New("connection refused")

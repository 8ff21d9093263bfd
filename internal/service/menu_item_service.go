package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/repository"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// MenuItemService publishes the daily menus of hall dining rooms.
type MenuItemService struct {
	items    repository.MenuItemRepository
	clock    Clock
	validate *validator.Validate
	logger   *zap.Logger
}

// MenuItemDependencies bundles collaborators for the menu service.
type MenuItemDependencies struct {
	MenuItemRepo repository.MenuItemRepository
	Clock        Clock
	Validator    *validator.Validate
	Logger       *zap.Logger
}

// MenuItemInput is a full menu line. A nil Date means today.
type MenuItemInput struct {
	HallName string  `validate:"required,max=100"`
	MealTime string  `validate:"required"`
	ItemName string  `validate:"required,max=100"`
	Price    float64 `validate:"gte=0"`
	Date     *time.Time
}

// NewMenuItemService constructs the service.
func NewMenuItemService(deps MenuItemDependencies) *MenuItemService {
	svc := &MenuItemService{
		items:    deps.MenuItemRepo,
		clock:    deps.Clock,
		validate: deps.Validator,
		logger:   deps.Logger,
	}
	if svc.clock == nil {
		svc.clock = SystemClock()
	}
	if svc.validate == nil {
		svc.validate = validator.New()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Create adds a line to a hall's menu.
func (s *MenuItemService) Create(ctx context.Context, input MenuItemInput) (*domain.MenuItem, error) {
	now := s.clock.Now()
	item := &domain.MenuItem{CreatedAt: now}
	if err := s.apply(item, input, now); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("menu item created", zap.String("menu_item_id", item.ID), zap.String("hall", item.HallName))
	return item, nil
}

// Update replaces a menu line.
func (s *MenuItemService) Update(ctx context.Context, id string, input MenuItemInput) (*domain.MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "menu item", id)
	}
	if err := s.apply(item, input, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, storeError(err, "menu item", id)
	}
	s.logger.Info("menu item updated", zap.String("menu_item_id", id))
	return item, nil
}

// Delete removes a menu line.
func (s *MenuItemService) Delete(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return storeError(err, "menu item", id)
	}
	s.logger.Info("menu item deleted", zap.String("menu_item_id", id))
	return nil
}

// GetByID returns a menu line.
func (s *MenuItemService) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "menu item", id)
	}
	return item, nil
}

// ListAll returns every menu line, latest date first.
func (s *MenuItemService) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	return s.list(ctx, repository.MenuItemFilter{})
}

// ListToday returns today's menu across all halls.
func (s *MenuItemService) ListToday(ctx context.Context) ([]domain.MenuItem, error) {
	today := domain.StartOfDay(s.clock.Now())
	return s.list(ctx, repository.MenuItemFilter{Date: &today})
}

// ListByHall returns a hall's menu for every date.
func (s *MenuItemService) ListByHall(ctx context.Context, hallName string) ([]domain.MenuItem, error) {
	hall := strings.TrimSpace(hallName)
	return s.list(ctx, repository.MenuItemFilter{HallName: &hall})
}

// ListHallToday returns a hall's menu for today.
func (s *MenuItemService) ListHallToday(ctx context.Context, hallName string) ([]domain.MenuItem, error) {
	hall := strings.TrimSpace(hallName)
	today := domain.StartOfDay(s.clock.Now())
	return s.list(ctx, repository.MenuItemFilter{HallName: &hall, Date: &today})
}

func (s *MenuItemService) apply(item *domain.MenuItem, input MenuItemInput, now time.Time) error {
	input.HallName = strings.TrimSpace(input.HallName)
	input.ItemName = strings.TrimSpace(input.ItemName)
	if err := validateStruct(s.validate, input, "invalid menu item"); err != nil {
		return err
	}
	mealTime, err := parseMealType(input.MealTime)
	if err != nil {
		return err
	}

	item.HallName = input.HallName
	item.MealTime = mealTime
	item.ItemName = input.ItemName
	item.Price = input.Price
	item.Date = domain.StartOfDay(now)
	if input.Date != nil {
		item.Date = domain.StartOfDay(*input.Date)
	}
	item.UpdatedAt = now
	return nil
}

func (s *MenuItemService) list(ctx context.Context, filter repository.MenuItemFilter) ([]domain.MenuItem, error) {
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

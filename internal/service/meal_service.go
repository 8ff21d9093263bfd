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

// MealService manages the meals hall dining rooms offer.
type MealService struct {
	meals    repository.MealRepository
	halls    repository.HallRepository
	tx       repository.Transactor
	clock    Clock
	validate *validator.Validate
	logger   *zap.Logger
}

// MealDependencies bundles collaborators for the meal service.
type MealDependencies struct {
	MealRepo   repository.MealRepository
	HallRepo   repository.HallRepository
	Transactor repository.Transactor
	Clock      Clock
	Validator  *validator.Validate
	Logger     *zap.Logger
}

// CreateMealInput describes a new meal. MealDate defaults to now and
// IsAvailable to true.
type CreateMealInput struct {
	HallID      string  `validate:"required"`
	Type        string  `validate:"required"`
	Name        string  `validate:"required,max=100"`
	Description string  `validate:"max=500"`
	Price       float64 `validate:"gte=0"`
	Quantity    int     `validate:"gte=0"`
	MealDate    *time.Time
	IsAvailable *bool
}

// UpdateMealInput changes only the fields that are set.
type UpdateMealInput struct {
	HallID      *string  `validate:"omitempty,min=1"`
	Type        *string  `validate:"omitempty,min=1"`
	Name        *string  `validate:"omitempty,min=1,max=100"`
	Description *string  `validate:"omitempty,max=500"`
	Price       *float64 `validate:"omitempty,gte=0"`
	Quantity    *int     `validate:"omitempty,gte=0"`
	MealDate    *time.Time
	IsAvailable *bool
}

// NewMealService constructs the service.
func NewMealService(deps MealDependencies) *MealService {
	svc := &MealService{
		meals:    deps.MealRepo,
		halls:    deps.HallRepo,
		tx:       deps.Transactor,
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

// Create adds a meal to an active hall.
func (s *MealService) Create(ctx context.Context, input CreateMealInput) (*domain.Meal, error) {
	input.HallID = strings.TrimSpace(input.HallID)
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	if err := validateStruct(s.validate, input, "invalid meal"); err != nil {
		return nil, err
	}
	mealType, err := parseMealType(input.Type)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	meal := &domain.Meal{
		HallID:      input.HallID,
		Type:        mealType,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		MealDate:    now,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.MealDate != nil {
		meal.MealDate = *input.MealDate
	}
	if input.IsAvailable != nil {
		meal.IsAvailable = *input.IsAvailable
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		hall, err := s.ensureHall(ctx, meal.HallID)
		if err != nil {
			return err
		}
		if err := s.meals.Create(ctx, meal); err != nil {
			return apperrors.NewInternalError(err)
		}
		meal.HallName = hall.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meal created",
		zap.String("meal_id", meal.ID),
		zap.String("hall_id", meal.HallID),
		zap.String("meal_type", string(meal.Type)))
	return meal, nil
}

// Update applies a partial change to a meal. Moving it to another hall
// requires that hall to be active.
func (s *MealService) Update(ctx context.Context, id string, input UpdateMealInput) (*domain.Meal, error) {
	if err := validateStruct(s.validate, input, "invalid meal"); err != nil {
		return nil, err
	}

	var updated *domain.Meal
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		meal, err := s.meals.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "meal", id)
		}

		if input.HallID != nil {
			hallID := strings.TrimSpace(*input.HallID)
			if hallID != meal.HallID {
				hall, err := s.ensureHall(ctx, hallID)
				if err != nil {
					return err
				}
				meal.HallID = hall.ID
				meal.HallName = hall.Name
			}
		}
		if input.Type != nil {
			mealType, err := parseMealType(*input.Type)
			if err != nil {
				return err
			}
			meal.Type = mealType
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperrors.NewValidationError("invalid meal", map[string]any{"name": "required"})
			}
			meal.Name = name
		}
		if input.Description != nil {
			meal.Description = strings.TrimSpace(*input.Description)
		}
		if input.Price != nil {
			meal.Price = *input.Price
		}
		if input.Quantity != nil {
			meal.Quantity = *input.Quantity
		}
		if input.MealDate != nil {
			meal.MealDate = *input.MealDate
		}
		if input.IsAvailable != nil {
			meal.IsAvailable = *input.IsAvailable
		}
		meal.UpdatedAt = s.clock.Now()

		if err := s.meals.Update(ctx, meal); err != nil {
			return storeError(err, "meal", id)
		}
		updated = meal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meal updated", zap.String("meal_id", id))
	return updated, nil
}

// Delete removes a meal.
func (s *MealService) Delete(ctx context.Context, id string) error {
	if err := s.meals.Delete(ctx, id); err != nil {
		return storeError(err, "meal", id)
	}
	s.logger.Info("meal deleted", zap.String("meal_id", id))
	return nil
}

// GetByID returns a meal.
func (s *MealService) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	meal, err := s.meals.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "meal", id)
	}
	return meal, nil
}

// ListAll returns every meal, latest meal date first.
func (s *MealService) ListAll(ctx context.Context) ([]domain.Meal, error) {
	return s.list(ctx, repository.MealFilter{})
}

// ListByHall returns the hall's meals, latest first.
func (s *MealService) ListByHall(ctx context.Context, hallID string) ([]domain.Meal, error) {
	if _, err := s.ensureHall(ctx, hallID); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.MealFilter{HallID: &hallID})
}

// ListByHallAndType returns the hall's meals for one sitting.
func (s *MealService) ListByHallAndType(ctx context.Context, hallID, rawType string) ([]domain.Meal, error) {
	mealType, err := parseMealType(rawType)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureHall(ctx, hallID); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.MealFilter{HallID: &hallID, Type: &mealType})
}

// ListTodayByHall returns the hall's meals dated today, grouped by sitting.
func (s *MealService) ListTodayByHall(ctx context.Context, hallID string) ([]domain.Meal, error) {
	if _, err := s.ensureHall(ctx, hallID); err != nil {
		return nil, err
	}
	from := domain.StartOfDay(s.clock.Now())
	to := from.AddDate(0, 0, 1)
	return s.list(ctx, repository.MealFilter{HallID: &hallID, From: &from, To: &to, Order: repository.MealOrderByType})
}

// ListByDateRange returns meals dated within [from, to], earliest first. Both
// bounds are whole days.
func (s *MealService) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	start := domain.StartOfDay(from)
	end := domain.StartOfDay(to).AddDate(0, 0, 1)
	if !end.After(start) {
		return nil, apperrors.NewValidationError("invalid date range", map[string]any{
			"from": from.Format(time.DateOnly),
			"to":   to.Format(time.DateOnly),
		})
	}
	return s.list(ctx, repository.MealFilter{From: &start, To: &end, Order: repository.MealOrderOldest})
}

// ListAvailable returns meals currently on offer.
func (s *MealService) ListAvailable(ctx context.Context) ([]domain.Meal, error) {
	return s.list(ctx, repository.MealFilter{AvailableOnly: true})
}

// ListAvailableByHall returns the hall's meals currently on offer.
func (s *MealService) ListAvailableByHall(ctx context.Context, hallID string) ([]domain.Meal, error) {
	if _, err := s.ensureHall(ctx, hallID); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.MealFilter{HallID: &hallID, AvailableOnly: true})
}

// ListByType returns available meals of one sitting across all halls.
func (s *MealService) ListByType(ctx context.Context, rawType string) ([]domain.Meal, error) {
	mealType, err := parseMealType(rawType)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.MealFilter{Type: &mealType, AvailableOnly: true})
}

// ensureHall reports NOT_FOUND for a missing or deactivated hall.
func (s *MealService) ensureHall(ctx context.Context, hallID string) (*domain.Hall, error) {
	hall, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return nil, storeError(err, "hall", hallID)
	}
	if !hall.IsActive {
		return nil, apperrors.NewNotFound("hall", map[string]any{"id": hallID})
	}
	return hall, nil
}

func (s *MealService) list(ctx context.Context, filter repository.MealFilter) ([]domain.Meal, error) {
	meals, err := s.meals.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if meals == nil {
		meals = []domain.Meal{}
	}
	return meals, nil
}

func parseMealType(raw string) (domain.MealType, error) {
	mealType, ok := domain.ParseMealType(raw)
	if !ok {
		return "", apperrors.NewValidationError("unknown meal type", map[string]any{"meal_type": raw})
	}
	return mealType, nil
}

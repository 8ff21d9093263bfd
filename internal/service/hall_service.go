package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/events"
	"github.com/sust-hall/hall-service/internal/repository"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// HallService maintains the residence hall registry and its seat counts.
type HallService struct {
	halls      repository.HallRepository
	tx         repository.Transactor
	clock      Clock
	dispatcher events.Dispatcher
	validate   *validator.Validate
	logger     *zap.Logger
}

// HallDependencies bundles collaborators for the hall service.
type HallDependencies struct {
	HallRepo   repository.HallRepository
	Transactor repository.Transactor
	Clock      Clock
	Dispatcher events.Dispatcher
	Validator  *validator.Validate
	Logger     *zap.Logger
}

// HallInput is a full hall record supplied by an administrator. A nil
// IsActive keeps the current value on update and means active on create.
type HallInput struct {
	Code             string `validate:"required,max=20"`
	Name             string `validate:"required,max=100"`
	FullName         string `validate:"max=200"`
	Type             string `validate:"required"`
	Capacity         int    `validate:"gte=0"`
	CurrentOccupancy int
	Provost          string
	Email            string `validate:"omitempty,email"`
	Phone            string
	OfficeLocation   string
	OfficeHours      string
	Description      string
	ImageURL         string `validate:"omitempty,url"`
	Facilities       string
	IsActive         *bool
}

// NewHallService constructs the service.
func NewHallService(deps HallDependencies) *HallService {
	svc := &HallService{
		halls:      deps.HallRepo,
		tx:         deps.Transactor,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
		validate:   deps.Validator,
		logger:     deps.Logger,
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

// Create registers a new hall. Hall code and name must be unique across all
// halls, including deactivated ones.
func (s *HallService) Create(ctx context.Context, input HallInput) (*domain.Hall, error) {
	hallType, err := s.checkInput(&input)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	hall := &domain.Hall{CreatedAt: now, IsActive: true}
	applyHallInput(hall, input, hallType)
	hall.UpdatedAt = now
	if !hall.OccupancyFits(hall.CurrentOccupancy) {
		return nil, occupancyError(hall, hall.CurrentOccupancy)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, hall.Code, hall.Name, ""); err != nil {
			return err
		}
		if err := s.halls.Create(ctx, hall); err != nil {
			return hallWriteError(err, hall)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("hall created", zap.String("hall_id", hall.ID), zap.String("hall_code", hall.Code))
	return hall, nil
}

// Update replaces a hall record. Uniqueness is only rechecked for a code or
// name that actually changes.
func (s *HallService) Update(ctx context.Context, id string, input HallInput) (*domain.Hall, error) {
	hallType, err := s.checkInput(&input)
	if err != nil {
		return nil, err
	}

	var updated *domain.Hall
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		hall, err := s.halls.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "hall", id)
		}

		code, name := "", ""
		if input.Code != hall.Code {
			code = input.Code
		}
		if !strings.EqualFold(input.Name, hall.Name) {
			name = input.Name
		}
		if err := s.ensureUnique(ctx, code, name, hall.ID); err != nil {
			return err
		}

		applyHallInput(hall, input, hallType)
		if !hall.OccupancyFits(hall.CurrentOccupancy) {
			return occupancyError(hall, hall.CurrentOccupancy)
		}
		hall.UpdatedAt = s.clock.Now()
		if err := s.halls.Update(ctx, hall); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return hallWriteError(err, hall)
			}
			return storeError(err, "hall", id)
		}
		updated = hall
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("hall updated", zap.String("hall_id", updated.ID))
	return updated, nil
}

// Deactivate hides a hall from public lookups. The row is kept so meals and
// history keep their reference.
func (s *HallService) Deactivate(ctx context.Context, id string) error {
	if err := s.halls.Deactivate(ctx, id, s.clock.Now()); err != nil {
		return storeError(err, "hall", id)
	}
	s.logger.Info("hall deactivated", zap.String("hall_id", id))
	return nil
}

// UpdateOccupancy sets the resident count of an active hall. The count must
// stay within [0, capacity].
func (s *HallService) UpdateOccupancy(ctx context.Context, id string, occupancy int) (*domain.Hall, error) {
	var updated *domain.Hall
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		hall, err := s.activeHall(ctx, id)
		if err != nil {
			return err
		}
		if !hall.OccupancyFits(occupancy) {
			return occupancyError(hall, occupancy)
		}
		now := s.clock.Now()
		if err := s.halls.UpdateOccupancy(ctx, id, occupancy, now); err != nil {
			return storeError(err, "hall", id)
		}
		previous := hall.CurrentOccupancy
		hall.CurrentOccupancy = occupancy
		hall.UpdatedAt = now
		updated = hall

		s.logger.Info("hall occupancy updated",
			zap.String("hall_id", id),
			zap.Int("previous", previous),
			zap.Int("occupancy", occupancy))
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventHallOccupancyChanged,
		SubjectID: updated.ID,
		Payload: events.HallOccupancyChangedPayload{
			HallName:       updated.Name,
			Occupancy:      updated.CurrentOccupancy,
			AvailableSeats: updated.AvailableSeats(),
		},
	}, s.clock.Now())
	return updated, nil
}

// GetByID returns an active hall.
func (s *HallService) GetByID(ctx context.Context, id string) (*domain.Hall, error) {
	return s.activeHall(ctx, id)
}

// GetByCode returns the active hall with the given code.
func (s *HallService) GetByCode(ctx context.Context, code string) (*domain.Hall, error) {
	code = strings.TrimSpace(code)
	hall, err := s.halls.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, hallLookupError(err, "code", code)
	}
	return hall, nil
}

// GetByName returns the active hall with the given name, ignoring case.
func (s *HallService) GetByName(ctx context.Context, name string) (*domain.Hall, error) {
	name = strings.TrimSpace(name)
	hall, err := s.halls.GetActiveByName(ctx, name)
	if err != nil {
		return nil, hallLookupError(err, "name", name)
	}
	return hall, nil
}

// GetByFullName returns the active hall with the given full name, ignoring case.
func (s *HallService) GetByFullName(ctx context.Context, fullName string) (*domain.Hall, error) {
	fullName = strings.TrimSpace(fullName)
	hall, err := s.halls.GetActiveByFullName(ctx, fullName)
	if err != nil {
		return nil, hallLookupError(err, "full_name", fullName)
	}
	return hall, nil
}

// ListAll returns every hall, deactivated ones included, by name.
func (s *HallService) ListAll(ctx context.Context) ([]domain.Hall, error) {
	return s.list(ctx, repository.HallFilter{IncludeInactive: true})
}

// ListActive returns active halls by name.
func (s *HallService) ListActive(ctx context.Context) ([]domain.Hall, error) {
	return s.list(ctx, repository.HallFilter{})
}

// ListByType returns active halls of the given type.
func (s *HallService) ListByType(ctx context.Context, rawType string) ([]domain.Hall, error) {
	hallType, ok := domain.ParseHallType(rawType)
	if !ok {
		return nil, apperrors.NewValidationError("unknown hall type", map[string]any{"type": rawType})
	}
	return s.list(ctx, repository.HallFilter{Type: &hallType})
}

// ListMale returns active male halls.
func (s *HallService) ListMale(ctx context.Context) ([]domain.Hall, error) {
	return s.ListByType(ctx, string(domain.HallTypeMale))
}

// ListFemale returns active female halls.
func (s *HallService) ListFemale(ctx context.Context) ([]domain.Hall, error) {
	return s.ListByType(ctx, string(domain.HallTypeFemale))
}

// CapacitySummary totals seats across active halls.
func (s *HallService) CapacitySummary(ctx context.Context) (domain.HallCapacitySummary, error) {
	summary, err := s.halls.CapacitySummary(ctx)
	if err != nil {
		return domain.HallCapacitySummary{}, apperrors.NewInternalError(err)
	}
	return summary, nil
}

// TypeStatistics groups active hall seat counts by hall type.
func (s *HallService) TypeStatistics(ctx context.Context) ([]domain.HallTypeStatistic, error) {
	stats, err := s.halls.TypeStatistics(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if stats == nil {
		stats = []domain.HallTypeStatistic{}
	}
	return stats, nil
}

// activeHall loads a hall and hides deactivated ones behind NOT_FOUND.
func (s *HallService) activeHall(ctx context.Context, id string) (*domain.Hall, error) {
	hall, err := s.halls.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "hall", id)
	}
	if !hall.IsActive {
		return nil, apperrors.NewNotFound("hall", map[string]any{"id": id})
	}
	return hall, nil
}

func (s *HallService) checkInput(input *HallInput) (domain.HallType, error) {
	input.Code = strings.TrimSpace(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = domain.NormalizeEmail(input.Email)

	if err := validateStruct(s.validate, *input, "invalid hall"); err != nil {
		return "", err
	}
	hallType, ok := domain.ParseHallType(input.Type)
	if !ok {
		return "", apperrors.NewValidationError("unknown hall type", map[string]any{"type": input.Type})
	}
	return hallType, nil
}

// ensureUnique rejects a code or name already used by another hall. Empty
// values are not checked.
func (s *HallService) ensureUnique(ctx context.Context, code, name, exceptID string) error {
	if code != "" {
		taken, err := s.halls.CodeTaken(ctx, code, exceptID)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if taken {
			return apperrors.NewConflict("hall code already exists", map[string]any{"hall_code": code})
		}
	}
	if name != "" {
		taken, err := s.halls.NameTaken(ctx, name, exceptID)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if taken {
			return apperrors.NewConflict("hall name already exists", map[string]any{"hall_name": name})
		}
	}
	return nil
}

func (s *HallService) list(ctx context.Context, filter repository.HallFilter) ([]domain.Hall, error) {
	halls, err := s.halls.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if halls == nil {
		halls = []domain.Hall{}
	}
	return halls, nil
}

func applyHallInput(hall *domain.Hall, input HallInput, hallType domain.HallType) {
	hall.Code = input.Code
	hall.Name = input.Name
	hall.FullName = input.FullName
	hall.Type = hallType
	hall.Capacity = input.Capacity
	hall.CurrentOccupancy = input.CurrentOccupancy
	hall.Provost = strings.TrimSpace(input.Provost)
	hall.Email = input.Email
	hall.Phone = strings.TrimSpace(input.Phone)
	hall.OfficeLocation = strings.TrimSpace(input.OfficeLocation)
	hall.OfficeHours = strings.TrimSpace(input.OfficeHours)
	hall.Description = strings.TrimSpace(input.Description)
	hall.ImageURL = strings.TrimSpace(input.ImageURL)
	hall.Facilities = strings.TrimSpace(input.Facilities)
	if input.IsActive != nil {
		hall.IsActive = *input.IsActive
	}
}

func occupancyError(hall *domain.Hall, occupancy int) error {
	return apperrors.NewValidationError("occupancy must be between 0 and hall capacity", map[string]any{
		"occupancy": occupancy,
		"capacity":  hall.Capacity,
	})
}

// hallWriteError maps a unique violation that slipped past ensureUnique.
func hallWriteError(err error, hall *domain.Hall) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("hall code or name already exists", map[string]any{
			"hall_code": hall.Code,
			"hall_name": hall.Name,
		})
	}
	return apperrors.NewInternalError(err)
}

func hallLookupError(err error, field, value string) error {
	domainErr := storeError(err, "hall", value)
	if apperrors.IsNotFound(domainErr) {
		return apperrors.NewNotFound("hall", map[string]any{field: value})
	}
	return domainErr
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sust-hall/hall-service/internal/config"
	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/events"
	"github.com/sust-hall/hall-service/internal/repository"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// AccountService owns registration and the approval lifecycle of user accounts.
type AccountService struct {
	users       repository.UserRepository
	tx          repository.Transactor
	hasher      PasswordHasher
	clock       Clock
	dispatcher  events.Dispatcher
	metrics     TransitionRecorder
	validate    *validator.Validate
	logger      *zap.Logger
	emailDomain string
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Transactor repository.Transactor
	Hasher     PasswordHasher
	Clock      Clock
	Dispatcher events.Dispatcher
	Metrics    TransitionRecorder
	Validator  *validator.Validate
	Logger     *zap.Logger
}

// RegisterInput is a self-registration request.
type RegisterInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	HallName        string
	Password        string `validate:"required"`
	ConfirmPassword string
}

// UserInput is an administrator-supplied account record. Password may be
// empty on update to keep the current hash.
type UserInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	HallName string
	Role     string `validate:"required"`
	Password string
}

// NewAccountService constructs the service.
func NewAccountService(cfg config.AccountConfig, deps AccountDependencies) *AccountService {
	svc := &AccountService{
		users:       deps.UserRepo,
		tx:          deps.Transactor,
		hasher:      deps.Hasher,
		clock:       deps.Clock,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		validate:    deps.Validator,
		logger:      deps.Logger,
		emailDomain: strings.TrimPrefix(strings.ToLower(strings.TrimSpace(cfg.EmailDomain)), "@"),
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

// Register creates a PENDING student account after validating passwords and
// the institutional email domain.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = domain.NormalizeEmail(input.Email)
	input.HallName = strings.TrimSpace(input.HallName)

	if err := validateStruct(s.validate, input, "invalid registration"); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("passwords do not match", map[string]any{"confirmpassword": "eqfield=password"})
	}
	if s.emailDomain != "" && !hasEmailDomain(input.Email, s.emailDomain) {
		return nil, apperrors.NewValidationError("only institutional email addresses are allowed", map[string]any{"email": "domain=" + s.emailDomain})
	}

	user, err := s.insertUser(ctx, input.Name, input.Email, input.HallName, domain.UserRoleStudent, input.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("hall", user.HallName))
	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		SubjectID: user.ID,
		Payload:   events.AccountRegisteredPayload{Email: user.Email, HallName: user.HallName},
	})
	return user, nil
}

// CreateUser adds an account on behalf of an administrator. The domain rule
// does not apply; the account still starts PENDING.
func (s *AccountService) CreateUser(ctx context.Context, input UserInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = domain.NormalizeEmail(input.Email)
	input.HallName = strings.TrimSpace(input.HallName)

	if err := validateStruct(s.validate, input, "invalid user"); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("invalid user", map[string]any{"password": "required"})
	}
	role, ok := domain.ParseUserRole(input.Role)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	user, err := s.insertUser(ctx, input.Name, input.Email, input.HallName, role, input.Password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AccountService) insertUser(ctx context.Context, name, email, hall string, role domain.UserRole, password string) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if exists {
		return nil, emailConflict(email)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:          name,
		Email:         email,
		HallName:      hall,
		Role:          role,
		PasswordHash:  hash,
		AccountStatus: domain.AccountStatusPending,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailConflict(email)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// UpdateUser replaces the editable fields of an account. Status and createdAt
// are left untouched.
func (s *AccountService) UpdateUser(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = domain.NormalizeEmail(input.Email)
	input.HallName = strings.TrimSpace(input.HallName)

	if err := validateStruct(s.validate, input, "invalid user"); err != nil {
		return nil, err
	}
	role, ok := domain.ParseUserRole(input.Role)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	var updated *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "user", id)
		}
		if input.Email != user.Email {
			exists, err := s.users.ExistsByEmail(ctx, input.Email)
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			if exists {
				return emailConflict(input.Email)
			}
		}
		user.Name = input.Name
		user.Email = input.Email
		user.HallName = input.HallName
		user.Role = role
		if input.Password != "" {
			hash, err := s.hasher.Hash(input.Password)
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			user.PasswordHash = hash
		}
		if err := s.users.Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return emailConflict(input.Email)
			}
			return storeError(err, "user", id)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account updated", zap.String("user_id", id))
	return updated, nil
}

// Approve marks the account APPROVED.
func (s *AccountService) Approve(ctx context.Context, id string) (*domain.User, error) {
	return s.setStatus(ctx, id, domain.AccountStatusApproved)
}

// Reject marks the account REJECTED.
func (s *AccountService) Reject(ctx context.Context, id string) (*domain.User, error) {
	return s.setStatus(ctx, id, domain.AccountStatusRejected)
}

// Suspend marks the account SUSPENDED.
func (s *AccountService) Suspend(ctx context.Context, id string) (*domain.User, error) {
	return s.setStatus(ctx, id, domain.AccountStatusSuspended)
}

// Activate returns the account to APPROVED.
func (s *AccountService) Activate(ctx context.Context, id string) (*domain.User, error) {
	return s.setStatus(ctx, id, domain.AccountStatusApproved)
}

func (s *AccountService) setStatus(ctx context.Context, id string, target domain.AccountStatus) (*domain.User, error) {
	var (
		user     *domain.User
		previous domain.AccountStatus
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.users.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "user", id)
		}
		if !domain.CanTransitionAccount(current.AccountStatus, target) {
			return apperrors.NewValidationError("account status transition not allowed", map[string]any{
				"from": current.AccountStatus,
				"to":   target,
			})
		}
		if err := s.users.UpdateStatus(ctx, id, target); err != nil {
			return storeError(err, "user", id)
		}
		previous = current.AccountStatus
		current.AccountStatus = target
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account status changed",
		zap.String("user_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))
	if s.metrics != nil {
		s.metrics.RecordTransition("account", string(target))
	}
	s.publish(ctx, events.Event{
		Type:      events.EventAccountStatusChanged,
		SubjectID: id,
		Payload:   events.AccountStatusChangedPayload{OldStatus: previous, NewStatus: target},
	})
	return user, nil
}

// UpdateRole sets the account role.
func (s *AccountService) UpdateRole(ctx context.Context, id, rawRole string) (*domain.User, error) {
	role, ok := domain.ParseUserRole(rawRole)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": rawRole})
	}

	var (
		user     *domain.User
		previous domain.UserRole
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.users.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "user", id)
		}
		if err := s.users.UpdateRole(ctx, id, role); err != nil {
			return storeError(err, "user", id)
		}
		previous = current.Role
		current.Role = role
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account role changed", zap.String("user_id", id), zap.String("role", string(role)))
	s.publish(ctx, events.Event{
		Type:      events.EventAccountRoleChanged,
		SubjectID: id,
		Payload:   events.AccountRoleChangedPayload{OldRole: previous, NewRole: role},
	})
	return user, nil
}

// GetByID loads one account.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", id)
	}
	return user, nil
}

// DeleteUser hard-deletes an account. Its complaints go with it.
func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError(err, "user", id)
	}
	s.logger.Info("account deleted", zap.String("user_id", id))
	return nil
}

// ListAll returns every account, newest first.
func (s *AccountService) ListAll(ctx context.Context) ([]domain.User, error) {
	return s.list(ctx, repository.UserFilter{})
}

// ListByStatus returns accounts in the given status.
func (s *AccountService) ListByStatus(ctx context.Context, rawStatus string) ([]domain.User, error) {
	status, ok := domain.ParseAccountStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError("unknown account status", map[string]any{"status": rawStatus})
	}
	return s.list(ctx, repository.UserFilter{Status: &status})
}

// ListPending returns accounts awaiting approval.
func (s *AccountService) ListPending(ctx context.Context) ([]domain.User, error) {
	return s.list(ctx, repository.UserFilter{Status: ptr(domain.AccountStatusPending)})
}

// ListByRole returns accounts holding role.
func (s *AccountService) ListByRole(ctx context.Context, rawRole string) ([]domain.User, error) {
	role, ok := domain.ParseUserRole(rawRole)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": rawRole})
	}
	return s.list(ctx, repository.UserFilter{Role: &role})
}

// ListByHall returns accounts registered to hallName.
func (s *AccountService) ListByHall(ctx context.Context, hallName string) ([]domain.User, error) {
	hall := strings.TrimSpace(hallName)
	return s.list(ctx, repository.UserFilter{HallName: &hall})
}

// HallNames returns the distinct halls that have accounts.
func (s *AccountService) HallNames(ctx context.Context) ([]string, error) {
	names, err := s.users.HallNames(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// HallStatistics returns per-hall account counts.
func (s *AccountService) HallStatistics(ctx context.Context) ([]domain.HallStatistic, error) {
	stats, err := s.users.HallStatistics(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if stats == nil {
		stats = []domain.HallStatistic{}
	}
	return stats, nil
}

func (s *AccountService) list(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event, s.now())
}

func (s *AccountService) now() time.Time {
	return s.clock.Now()
}

func emailConflict(email string) error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": email})
}

// hasEmailDomain accepts the exact domain or any subdomain of it, so
// student.sust.edu passes for sust.edu and notsust.edu does not.
func hasEmailDomain(email, domain string) bool {
	return strings.HasSuffix(email, "@"+domain) || strings.HasSuffix(email, "."+domain)
}

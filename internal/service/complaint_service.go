package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sust-hall/hall-service/internal/config"
	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/events"
	"github.com/sust-hall/hall-service/internal/repository"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

const eventPreviewLength = 120

// ComplaintService coordinates the complaint lifecycle and its note history.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	notes       repository.ComplaintNoteRepository
	users       repository.UserRepository
	tx          repository.Transactor
	clock       Clock
	dispatcher  events.Dispatcher
	metrics     TransitionRecorder
	validate    *validator.Validate
	logger      *zap.Logger
	responseMax int
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	NoteRepo      repository.ComplaintNoteRepository
	UserRepo      repository.UserRepository
	Transactor    repository.Transactor
	Clock         Clock
	Dispatcher    events.Dispatcher
	Metrics       TransitionRecorder
	Validator     *validator.Validate
	Logger        *zap.Logger
}

// CreateComplaintInput describes a new complaint.
type CreateComplaintInput struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=1000"`
	Category    string `validate:"required,max=100"`
	Priority    string `validate:"required"`
	UserID      string `validate:"required"`
}

// StatusUpdateInput moves a complaint to a new status. Note and
// AdminResponse are optional.
type StatusUpdateInput struct {
	Status        string
	UpdatedBy     string
	Note          string
	AdminResponse string
}

// NewComplaintService constructs the service.
func NewComplaintService(cfg config.ComplaintConfig, deps ComplaintDependencies) *ComplaintService {
	svc := &ComplaintService{
		complaints:  deps.ComplaintRepo,
		notes:       deps.NoteRepo,
		users:       deps.UserRepo,
		tx:          deps.Transactor,
		clock:       deps.Clock,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		validate:    deps.Validator,
		logger:      deps.Logger,
		responseMax: cfg.AdminResponseMaxLength,
	}
	if svc.responseMax <= 0 {
		svc.responseMax = domain.DefaultAdminResponseMaxLength
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

// Create files a new OPEN complaint for an existing user.
func (s *ComplaintService) Create(ctx context.Context, input CreateComplaintInput) (*domain.Complaint, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)

	if err := validateStruct(s.validate, input, "invalid complaint"); err != nil {
		return nil, err
	}
	priority, ok := domain.ParseComplaintPriority(input.Priority)
	if !ok {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	now := s.clock.Now()
	complaint := &domain.Complaint{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      domain.ComplaintStatusOpen,
		UserID:      input.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Notes:       []domain.ComplaintNote{},
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		owner, err := s.users.GetByID(ctx, input.UserID)
		if err != nil {
			return storeError(err, "user", input.UserID)
		}
		complaint.UserName = owner.Name
		if err := s.complaints.Create(ctx, complaint); err != nil {
			return apperrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("complaint created",
		zap.String("complaint_id", complaint.ID),
		zap.String("user_id", complaint.UserID),
		zap.String("priority", string(priority)))
	s.recordTransition(complaint.Status)
	s.publish(ctx, events.Event{
		Type:      events.EventComplaintCreated,
		SubjectID: complaint.ID,
		ActorID:   ptr(complaint.UserID),
		Payload: events.ComplaintCreatedPayload{
			UserID:   complaint.UserID,
			Category: complaint.Category,
			Priority: complaint.Priority,
			Title:    complaint.Title,
		},
	})
	return complaint, nil
}

// UpdateStatus moves the complaint to a new status. A non-blank note is
// recorded as a status-change note; a non-blank admin response fills the
// response slot without altering the requested status.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, input StatusUpdateInput) (*domain.Complaint, error) {
	next, ok := domain.ParseComplaintStatus(input.Status)
	if !ok {
		return nil, apperrors.NewValidationError("unknown complaint status", map[string]any{"status": input.Status})
	}
	note := strings.TrimSpace(input.Note)
	if err := validateNoteLength(note); err != nil {
		return nil, err
	}
	response := strings.TrimSpace(input.AdminResponse)
	if response != "" {
		if err := s.validateResponse(response); err != nil {
			return nil, err
		}
	}

	var previous domain.ComplaintStatus
	complaint, err := s.mutate(ctx, id, func(c *domain.Complaint) error {
		previous = c.Status
		if !domain.CanTransitionComplaint(c.Status, next) {
			return apperrors.NewValidationError("complaint status transition not allowed", map[string]any{
				"from": c.Status,
				"to":   next,
			})
		}
		now := s.clock.Now()
		if response != "" {
			c.RecordAdminResponse(response, input.UpdatedBy, now)
		}
		c.ChangeStatus(next, now)
		if note != "" {
			c.AddNote(domain.StatusChangeNote(next, note), input.UpdatedBy, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("complaint status changed",
		zap.String("complaint_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(next)))
	s.recordTransition(next)
	s.publish(ctx, events.Event{
		Type:      events.EventComplaintStatusChanged,
		SubjectID: id,
		ActorID:   optionalActor(input.UpdatedBy),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: previous,
			NewStatus: next,
			Note:      note,
		},
	})
	if response != "" {
		s.publishResponse(ctx, id, input.UpdatedBy, response)
	}
	return complaint, nil
}

// SetAdminResponse stores the response, advances an OPEN complaint to
// IN_PROGRESS and records an audit note.
func (s *ComplaintService) SetAdminResponse(ctx context.Context, id, responseText, respondedBy string) (*domain.Complaint, error) {
	response := strings.TrimSpace(responseText)
	if response == "" {
		return nil, apperrors.NewValidationError("admin response is required", map[string]any{"response": "required"})
	}
	if err := s.validateResponse(response); err != nil {
		return nil, err
	}

	var advanced bool
	complaint, err := s.mutate(ctx, id, func(c *domain.Complaint) error {
		now := s.clock.Now()
		if c.Status == domain.ComplaintStatusOpen {
			c.ChangeStatus(domain.ComplaintStatusInProgress, now)
			advanced = true
		}
		c.RecordAdminResponse(response, respondedBy, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("complaint response recorded",
		zap.String("complaint_id", id),
		zap.String("responded_by", respondedBy),
		zap.Bool("advanced", advanced))
	if advanced {
		s.recordTransition(domain.ComplaintStatusInProgress)
		s.publish(ctx, events.Event{
			Type:      events.EventComplaintStatusChanged,
			SubjectID: id,
			ActorID:   optionalActor(respondedBy),
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus: domain.ComplaintStatusOpen,
				NewStatus: domain.ComplaintStatusInProgress,
			},
		})
	}
	s.publishResponse(ctx, id, respondedBy, response)
	return complaint, nil
}

// AddNote appends an authored note without touching the status.
func (s *ComplaintService) AddNote(ctx context.Context, id, noteText, authorID string) (*domain.Complaint, error) {
	text := strings.TrimSpace(noteText)
	if text == "" {
		return nil, apperrors.NewValidationError("note is required", map[string]any{"note": "required"})
	}
	if err := validateNoteLength(text); err != nil {
		return nil, err
	}

	complaint, err := s.mutate(ctx, id, func(c *domain.Complaint) error {
		c.AddNote(text, authorID, s.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	noteID := complaint.Notes[len(complaint.Notes)-1].ID
	s.logger.Info("complaint note added", zap.String("complaint_id", id), zap.String("note_id", noteID))
	s.publish(ctx, events.Event{
		Type:      events.EventComplaintNoteAdded,
		SubjectID: id,
		ActorID:   optionalActor(authorID),
		Payload: events.ComplaintNoteAddedPayload{
			NoteID:   noteID,
			AuthorID: authorID,
			Preview:  stringPreview(text, eventPreviewLength),
		},
	})
	return complaint, nil
}

// GetByID loads a complaint with its notes in insertion order.
func (s *ComplaintService) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "complaint", id)
	}
	notes, err := s.notes.ListByComplaint(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	complaint.Notes = nonNilNotes(notes)
	return complaint, nil
}

// ListByUser returns the user's complaints, newest first. An unknown user
// yields an empty list.
func (s *ComplaintService) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	return s.list(ctx, repository.ComplaintFilter{UserID: &userID})
}

// ListByStatus returns complaints in the given status.
func (s *ComplaintService) ListByStatus(ctx context.Context, rawStatus string) ([]domain.Complaint, error) {
	status, ok := domain.ParseComplaintStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError("unknown complaint status", map[string]any{"status": rawStatus})
	}
	return s.list(ctx, repository.ComplaintFilter{Status: &status})
}

// ListByCategory returns complaints filed under category.
func (s *ComplaintService) ListByCategory(ctx context.Context, category string) ([]domain.Complaint, error) {
	trimmed := strings.TrimSpace(category)
	return s.list(ctx, repository.ComplaintFilter{Category: &trimmed})
}

// ListByPriority returns complaints with the given priority.
func (s *ComplaintService) ListByPriority(ctx context.Context, rawPriority string) ([]domain.Complaint, error) {
	priority, ok := domain.ParseComplaintPriority(rawPriority)
	if !ok {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": rawPriority})
	}
	return s.list(ctx, repository.ComplaintFilter{Priority: &priority})
}

// ListAll returns every complaint, newest first.
func (s *ComplaintService) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return s.list(ctx, repository.ComplaintFilter{})
}

// Delete removes the complaint and all of its notes in one transaction.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.complaints.Exists(ctx, id)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if !exists {
			return apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		if err := s.notes.DeleteByComplaint(ctx, id); err != nil {
			return apperrors.NewInternalError(err)
		}
		if err := s.complaints.Delete(ctx, id); err != nil {
			return storeError(err, "complaint", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("complaint deleted", zap.String("complaint_id", id))
	s.publish(ctx, events.Event{
		Type:      events.EventComplaintDeleted,
		SubjectID: id,
	})
	return nil
}

// mutate loads the complaint, applies fn and persists the result together
// with any notes fn appended, all inside one transaction.
func (s *ComplaintService) mutate(ctx context.Context, id string, fn func(*domain.Complaint) error) (*domain.Complaint, error) {
	var result *domain.Complaint
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		complaint, err := s.complaints.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "complaint", id)
		}
		existing, err := s.notes.ListByComplaint(ctx, id)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		complaint.Notes = nonNilNotes(existing)

		if err := fn(complaint); err != nil {
			return err
		}
		if err := s.complaints.Update(ctx, complaint); err != nil {
			return storeError(err, "complaint", id)
		}
		for _, note := range complaint.UnsavedNotes() {
			note.ComplaintID = complaint.ID
			if err := s.notes.Create(ctx, note); err != nil {
				return apperrors.NewInternalError(err)
			}
		}
		result = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ComplaintService) list(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(complaints) == 0 {
		return []domain.Complaint{}, nil
	}

	ids := make([]string, 0, len(complaints))
	for _, c := range complaints {
		ids = append(ids, c.ID)
	}
	grouped, err := s.notes.ListByComplaints(ctx, ids)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for i := range complaints {
		complaints[i].Notes = nonNilNotes(grouped[complaints[i].ID])
	}
	return complaints, nil
}

func (s *ComplaintService) validateResponse(response string) error {
	if utf8.RuneCountInString(response) > s.responseMax {
		return apperrors.NewValidationError("admin response too long", map[string]any{
			"response": "max=" + strconv.Itoa(s.responseMax),
		})
	}
	return nil
}

func (s *ComplaintService) publishResponse(ctx context.Context, id, respondedBy, response string) {
	s.publish(ctx, events.Event{
		Type:      events.EventComplaintResponseAdded,
		SubjectID: id,
		ActorID:   optionalActor(respondedBy),
		Payload: events.ComplaintResponseAddedPayload{
			RespondedBy: respondedBy,
			Preview:     stringPreview(response, eventPreviewLength),
		},
	})
}

func (s *ComplaintService) recordTransition(status domain.ComplaintStatus) {
	if s.metrics != nil {
		s.metrics.RecordTransition("complaint", string(status))
	}
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event, s.clock.Now())
}

func validateNoteLength(note string) error {
	if utf8.RuneCountInString(note) > domain.ComplaintNoteMaxLength {
		return apperrors.NewValidationError("note too long", map[string]any{
			"note": "max=" + strconv.Itoa(domain.ComplaintNoteMaxLength),
		})
	}
	return nil
}

func optionalActor(id string) *string {
	if id == "" {
		return nil
	}
	return ptr(id)
}

func nonNilNotes(notes []domain.ComplaintNote) []domain.ComplaintNote {
	if notes == nil {
		return []domain.ComplaintNote{}
	}
	return notes
}

package events

import (
	"time"

	"github.com/sust-hall/hall-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintResponseAdded EventType = "complaint_response_added"
	EventComplaintNoteAdded     EventType = "complaint_note_added"
	EventComplaintDeleted       EventType = "complaint_deleted"
	EventAccountRegistered      EventType = "account_registered"
	EventAccountStatusChanged   EventType = "account_status_changed"
	EventAccountRoleChanged     EventType = "account_role_changed"
	EventHallOccupancyChanged   EventType = "hall_occupancy_changed"
)

// AllEventTypes lists every type, for subscribers that forward everything.
var AllEventTypes = []EventType{
	EventComplaintCreated,
	EventComplaintStatusChanged,
	EventComplaintResponseAdded,
	EventComplaintNoteAdded,
	EventComplaintDeleted,
	EventAccountRegistered,
	EventAccountStatusChanged,
	EventAccountRoleChanged,
	EventHallOccupancyChanged,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	UserID   string                   `json:"user_id"`
	Category string                   `json:"category"`
	Priority domain.ComplaintPriority `json:"priority"`
	Title    string                   `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Note      string                 `json:"note,omitempty"`
}

// ComplaintResponseAddedPayload payload.
type ComplaintResponseAddedPayload struct {
	RespondedBy string `json:"responded_by"`
	Preview     string `json:"preview"`
}

// ComplaintNoteAddedPayload payload.
type ComplaintNoteAddedPayload struct {
	NoteID   string `json:"note_id"`
	AuthorID string `json:"author_id"`
	Preview  string `json:"preview"`
}

// AccountStatusChangedPayload payload.
type AccountStatusChangedPayload struct {
	OldStatus domain.AccountStatus `json:"old_status"`
	NewStatus domain.AccountStatus `json:"new_status"`
}

// AccountRoleChangedPayload payload.
type AccountRoleChangedPayload struct {
	OldRole domain.UserRole `json:"old_role"`
	NewRole domain.UserRole `json:"new_role"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email    string `json:"email"`
	HallName string `json:"hall_name,omitempty"`
}

// HallOccupancyChangedPayload payload.
type HallOccupancyChangedPayload struct {
	HallName       string `json:"hall_name"`
	Occupancy      int    `json:"occupancy"`
	AvailableSeats int    `json:"available_seats"`
}

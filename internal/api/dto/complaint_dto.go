package dto

import (
	"time"

	"github.com/sust-hall/hall-service/internal/domain"
)

// CreateComplaintRequest payload. UserID defaults to the caller.
type CreateComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	UserID      string `json:"user_id,omitempty"`
}

// StatusUpdateRequest payload. UpdatedBy defaults to the caller.
type StatusUpdateRequest struct {
	Status        string `json:"status"`
	UpdatedBy     string `json:"updated_by,omitempty"`
	Note          string `json:"note,omitempty"`
	AdminResponse string `json:"admin_response,omitempty"`
}

// AdminResponseRequest payload. RespondedBy defaults to the caller.
type AdminResponseRequest struct {
	Response    string `json:"response"`
	RespondedBy string `json:"responded_by,omitempty"`
}

// NoteRequest payload. AuthorID defaults to the caller.
type NoteRequest struct {
	Note     string `json:"note"`
	AuthorID string `json:"author_id,omitempty"`
}

// ComplaintResponse represents a complaint with its note history.
type ComplaintResponse struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      string                   `json:"category"`
	Priority      domain.ComplaintPriority `json:"priority"`
	Status        domain.ComplaintStatus   `json:"status"`
	UserID        string                   `json:"user_id"`
	UserName      string                   `json:"user_name"`
	AdminResponse *string                  `json:"admin_response"`
	RespondedBy   *string                  `json:"responded_by"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	ResolvedAt    *time.Time               `json:"resolved_at"`
	Notes         []NoteResponse           `json:"notes"`
}

// NoteResponse represents one history entry.
type NoteResponse struct {
	ID        string    `json:"id"`
	Note      string    `json:"note"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Field limits for complaints and their notes.
const (
	ComplaintTitleMaxLength       = 200
	ComplaintDescriptionMaxLength = 1000
	ComplaintCategoryMaxLength    = 100
	ComplaintNoteMaxLength        = 1000
	DefaultAdminResponseMaxLength = 1000
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "OPEN"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusClosed     ComplaintStatus = "CLOSED"
	ComplaintStatusRejected   ComplaintStatus = "REJECTED"
)

var complaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusClosed,
	ComplaintStatusRejected,
}

// Valid reports whether s is a recognized complaint status.
func (s ComplaintStatus) Valid() bool {
	for _, candidate := range complaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsResolution reports whether reaching s stamps resolvedAt.
func (s ComplaintStatus) IsResolution() bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusClosed
}

// ParseComplaintStatus normalizes and validates a status string.
func ParseComplaintStatus(raw string) (ComplaintStatus, bool) {
	status := ComplaintStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return status, status.Valid()
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "LOW"
	ComplaintPriorityMedium ComplaintPriority = "MEDIUM"
	ComplaintPriorityHigh   ComplaintPriority = "HIGH"
	ComplaintPriorityUrgent ComplaintPriority = "URGENT"
)

// Valid reports whether p is a recognized priority.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh, ComplaintPriorityUrgent:
		return true
	}
	return false
}

// ParseComplaintPriority normalizes and validates a priority string.
func ParseComplaintPriority(raw string) (ComplaintPriority, bool) {
	priority := ComplaintPriority(strings.ToUpper(strings.TrimSpace(raw)))
	return priority, priority.Valid()
}

// Closed and rejected are terminal in practice only; nothing is enforced yet.
var allowedComplaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusOpen:       complaintStatuses,
	ComplaintStatusInProgress: complaintStatuses,
	ComplaintStatusResolved:   complaintStatuses,
	ComplaintStatusClosed:     complaintStatuses,
	ComplaintStatusRejected:   complaintStatuses,
}

// CanTransitionComplaint reports whether a complaint may move from current to next.
func CanTransitionComplaint(current, next ComplaintStatus) bool {
	for _, candidate := range allowedComplaintTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Complaint is a student-filed issue tracked through resolution.
type Complaint struct {
	ID            string
	Title         string
	Description   string
	Category      string
	Priority      ComplaintPriority
	Status        ComplaintStatus
	UserID        string
	UserName      string
	AdminResponse *string
	RespondedBy   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
	Notes         []ComplaintNote
}

// ComplaintNote is an immutable authored entry in a complaint's history.
type ComplaintNote struct {
	ID          string
	ComplaintID string
	Note        string
	AuthorID    string
	CreatedAt   time.Time
}

// Touch refreshes updatedAt.
func (c *Complaint) Touch(now time.Time) {
	c.UpdatedAt = now
}

// ChangeStatus sets the status and stamps resolvedAt on the first resolution.
// A later reopen does not clear resolvedAt.
func (c *Complaint) ChangeStatus(next ComplaintStatus, now time.Time) {
	c.Status = next
	if next.IsResolution() && c.ResolvedAt == nil {
		resolved := now
		c.ResolvedAt = &resolved
	}
	c.Touch(now)
}

// AddNote appends a note and returns a pointer to the stored copy.
func (c *Complaint) AddNote(text, authorID string, now time.Time) *ComplaintNote {
	c.Notes = append(c.Notes, ComplaintNote{
		ComplaintID: c.ID,
		Note:        text,
		AuthorID:    authorID,
		CreatedAt:   now,
	})
	c.Touch(now)
	return &c.Notes[len(c.Notes)-1]
}

// RecordAdminResponse stores the response slot and mirrors it as an audit note.
func (c *Complaint) RecordAdminResponse(text, respondedBy string, now time.Time) *ComplaintNote {
	response := text
	responder := respondedBy
	c.AdminResponse = &response
	c.RespondedBy = &responder
	return c.AddNote("Admin response added: "+text, respondedBy, now)
}

// UnsavedNotes returns the notes appended since the complaint was loaded.
func (c *Complaint) UnsavedNotes() []*ComplaintNote {
	var pending []*ComplaintNote
	for i := range c.Notes {
		if c.Notes[i].ID == "" {
			pending = append(pending, &c.Notes[i])
		}
	}
	return pending
}

// StatusChangeNote renders the audit text for a status change.
func StatusChangeNote(status ComplaintStatus, note string) string {
	return fmt.Sprintf("Status changed to %s: %s", status, note)
}

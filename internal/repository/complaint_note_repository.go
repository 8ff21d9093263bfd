package repository

import (
	"context"

	"github.com/sust-hall/hall-service/internal/domain"
)

// ComplaintNoteRepository manages the append-only note history of complaints.
type ComplaintNoteRepository interface {
	Create(ctx context.Context, note *domain.ComplaintNote) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintNote, error)
	ListByComplaints(ctx context.Context, complaintIDs []string) (map[string][]domain.ComplaintNote, error)
	DeleteByComplaint(ctx context.Context, complaintID string) error
}

type complaintNoteRepository struct {
	pool Pool
}

// NewComplaintNoteRepository builds repository.
func NewComplaintNoteRepository(pool Pool) ComplaintNoteRepository {
	return &complaintNoteRepository{pool: pool}
}

func (r *complaintNoteRepository) Create(ctx context.Context, note *domain.ComplaintNote) error {
	const query = `
        INSERT INTO complaint_notes (complaint_id, note, author_id, created_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return executor(ctx, r.pool).QueryRow(ctx, query,
		note.ComplaintID,
		note.Note,
		note.AuthorID,
		note.CreatedAt,
	).Scan(&note.ID)
}

func (r *complaintNoteRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintNote, error) {
	grouped, err := r.ListByComplaints(ctx, []string{complaintID})
	if err != nil {
		return nil, err
	}
	return grouped[complaintID], nil
}

func (r *complaintNoteRepository) ListByComplaints(ctx context.Context, complaintIDs []string) (map[string][]domain.ComplaintNote, error) {
	result := make(map[string][]domain.ComplaintNote, len(complaintIDs))
	if len(complaintIDs) == 0 {
		return result, nil
	}

	const query = `
        SELECT id, complaint_id, note, author_id, created_at
        FROM complaint_notes WHERE complaint_id = ANY($1::uuid[])
        ORDER BY created_at ASC, seq ASC`
	rows, err := executor(ctx, r.pool).Query(ctx, query, complaintIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var note domain.ComplaintNote
		if err := rows.Scan(
			&note.ID,
			&note.ComplaintID,
			&note.Note,
			&note.AuthorID,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		result[note.ComplaintID] = append(result[note.ComplaintID], note)
	}
	return result, rows.Err()
}

func (r *complaintNoteRepository) DeleteByComplaint(ctx context.Context, complaintID string) error {
	_, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM complaint_notes WHERE complaint_id=$1`, complaintID)
	return err
}

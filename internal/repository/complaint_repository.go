package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sust-hall/hall-service/internal/domain"
)

// ComplaintFilter captures list query parameters. Nil fields are ignored.
type ComplaintFilter struct {
	UserID   *string
	Status   *domain.ComplaintStatus
	Category *string
	Priority *domain.ComplaintPriority
}

// ComplaintRepository encapsulates complaint persistence. Notes are stored by
// ComplaintNoteRepository.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	Delete(ctx context.Context, id string) error
}

type complaintRepository struct {
	pool Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintSelect = `
        SELECT c.id, c.title, c.description, c.category, c.priority, c.status, c.user_id, u.name,
               c.admin_response, c.responded_by, c.created_at, c.updated_at, c.resolved_at
        FROM complaints c JOIN users u ON u.id = c.user_id`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, category, priority, status, user_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	return executor(ctx, r.pool).QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.UserID,
		complaint.CreatedAt,
		complaint.UpdatedAt,
	).Scan(&complaint.ID)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET status=$1, admin_response=$2, responded_by=$3, updated_at=$4, resolved_at=$5
        WHERE id=$6`
	cmd, err := executor(ctx, r.pool).Exec(ctx, query,
		complaint.Status,
		complaint.AdminResponse,
		complaint.RespondedBy,
		complaint.UpdatedAt,
		complaint.ResolvedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := scanComplaint(executor(ctx, r.pool).QueryRow(ctx, complaintSelect+` WHERE c.id=$1`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return complaint, nil
}

func (r *complaintRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := executor(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM complaints WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("c.user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("c.category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("c.priority=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC`, complaintSelect, strings.Join(clauses, " AND "))

	rows, err := executor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := row.Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&complaint.UserID,
		&complaint.UserName,
		&complaint.AdminResponse,
		&complaint.RespondedBy,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

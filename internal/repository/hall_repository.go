package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sust-hall/hall-service/internal/domain"
)

// HallFilter narrows hall listings. Inactive halls are skipped unless
// IncludeInactive is set.
type HallFilter struct {
	Type            *domain.HallType
	IncludeInactive bool
}

// HallRepository persists residence halls.
type HallRepository interface {
	Create(ctx context.Context, hall *domain.Hall) error
	Update(ctx context.Context, hall *domain.Hall) error
	GetByID(ctx context.Context, id string) (*domain.Hall, error)
	GetActiveByCode(ctx context.Context, code string) (*domain.Hall, error)
	GetActiveByName(ctx context.Context, name string) (*domain.Hall, error)
	GetActiveByFullName(ctx context.Context, fullName string) (*domain.Hall, error)
	CodeTaken(ctx context.Context, code, exceptID string) (bool, error)
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	List(ctx context.Context, filter HallFilter) ([]domain.Hall, error)
	UpdateOccupancy(ctx context.Context, id string, occupancy int, at time.Time) error
	Deactivate(ctx context.Context, id string, at time.Time) error
	CapacitySummary(ctx context.Context) (domain.HallCapacitySummary, error)
	TypeStatistics(ctx context.Context) ([]domain.HallTypeStatistic, error)
}

type hallRepository struct {
	pool Pool
}

// NewHallRepository returns a Postgres-backed implementation.
func NewHallRepository(pool Pool) HallRepository {
	return &hallRepository{pool: pool}
}

const hallColumns = `id, hall_code, hall_name, full_name, type, capacity, current_occupancy, provost, email, phone,
        office_location, office_hours, description, image_url, facilities, is_active, created_at, updated_at`

func (r *hallRepository) Create(ctx context.Context, hall *domain.Hall) error {
	const query = `
        INSERT INTO halls (hall_code, hall_name, full_name, type, capacity, current_occupancy, provost, email, phone,
            office_location, office_hours, description, image_url, facilities, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id`
	err := executor(ctx, r.pool).QueryRow(ctx, query,
		hall.Code,
		hall.Name,
		hall.FullName,
		hall.Type,
		hall.Capacity,
		hall.CurrentOccupancy,
		hall.Provost,
		hall.Email,
		hall.Phone,
		hall.OfficeLocation,
		hall.OfficeHours,
		hall.Description,
		hall.ImageURL,
		hall.Facilities,
		hall.IsActive,
		hall.CreatedAt,
		hall.UpdatedAt,
	).Scan(&hall.ID)
	return mapWriteError(err)
}

func (r *hallRepository) Update(ctx context.Context, hall *domain.Hall) error {
	const query = `
        UPDATE halls SET hall_code=$1, hall_name=$2, full_name=$3, type=$4, capacity=$5, current_occupancy=$6,
            provost=$7, email=$8, phone=$9, office_location=$10, office_hours=$11, description=$12,
            image_url=$13, facilities=$14, is_active=$15, updated_at=$16
        WHERE id=$17`
	cmd, err := executor(ctx, r.pool).Exec(ctx, query,
		hall.Code,
		hall.Name,
		hall.FullName,
		hall.Type,
		hall.Capacity,
		hall.CurrentOccupancy,
		hall.Provost,
		hall.Email,
		hall.Phone,
		hall.OfficeLocation,
		hall.OfficeHours,
		hall.Description,
		hall.ImageURL,
		hall.Facilities,
		hall.IsActive,
		hall.UpdatedAt,
		hall.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hallRepository) GetByID(ctx context.Context, id string) (*domain.Hall, error) {
	hall, err := scanHall(executor(ctx, r.pool).QueryRow(ctx, `SELECT `+hallColumns+` FROM halls WHERE id=$1`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return hall, nil
}

func (r *hallRepository) GetActiveByCode(ctx context.Context, code string) (*domain.Hall, error) {
	return r.getActive(ctx, `hall_code=$1`, code)
}

func (r *hallRepository) GetActiveByName(ctx context.Context, name string) (*domain.Hall, error) {
	return r.getActive(ctx, `LOWER(hall_name)=LOWER($1)`, name)
}

func (r *hallRepository) GetActiveByFullName(ctx context.Context, fullName string) (*domain.Hall, error) {
	return r.getActive(ctx, `LOWER(full_name)=LOWER($1)`, fullName)
}

func (r *hallRepository) getActive(ctx context.Context, where, arg string) (*domain.Hall, error) {
	query := `SELECT ` + hallColumns + ` FROM halls WHERE ` + where + ` AND is_active LIMIT 1`
	return scanHall(executor(ctx, r.pool).QueryRow(ctx, query, arg))
}

// CodeTaken checks every hall, active or not, since deactivated halls keep
// their unique code.
func (r *hallRepository) CodeTaken(ctx context.Context, code, exceptID string) (bool, error) {
	return r.taken(ctx, `hall_code=$1`, code, exceptID)
}

func (r *hallRepository) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	return r.taken(ctx, `LOWER(hall_name)=LOWER($1)`, name, exceptID)
}

func (r *hallRepository) taken(ctx context.Context, where, value, exceptID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM halls WHERE ` + where + ` AND id::text <> $2)`
	var exists bool
	err := executor(ctx, r.pool).QueryRow(ctx, query, value, exceptID).Scan(&exists)
	return exists, err
}

func (r *hallRepository) List(ctx context.Context, filter HallFilter) ([]domain.Hall, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.IncludeInactive {
		clauses = append(clauses, "is_active")
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM halls WHERE %s ORDER BY hall_name`, hallColumns, strings.Join(clauses, " AND "))

	rows, err := executor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Hall
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *hall)
	}
	return result, rows.Err()
}

func (r *hallRepository) UpdateOccupancy(ctx context.Context, id string, occupancy int, at time.Time) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx,
		`UPDATE halls SET current_occupancy=$1, updated_at=$2 WHERE id=$3`, occupancy, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hallRepository) Deactivate(ctx context.Context, id string, at time.Time) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx,
		`UPDATE halls SET is_active=false, updated_at=$1 WHERE id=$2 AND is_active`, at, id)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hallRepository) CapacitySummary(ctx context.Context) (domain.HallCapacitySummary, error) {
	const query = `
        SELECT COUNT(*), COALESCE(SUM(capacity), 0), COALESCE(SUM(current_occupancy), 0)
        FROM halls WHERE is_active`
	var summary domain.HallCapacitySummary
	err := executor(ctx, r.pool).QueryRow(ctx, query).Scan(
		&summary.HallCount,
		&summary.TotalCapacity,
		&summary.TotalOccupancy,
	)
	return summary, err
}

func (r *hallRepository) TypeStatistics(ctx context.Context) ([]domain.HallTypeStatistic, error) {
	const query = `
        SELECT type, COUNT(*), COALESCE(SUM(capacity), 0), COALESCE(SUM(current_occupancy), 0)
        FROM halls WHERE is_active
        GROUP BY type ORDER BY type`
	rows, err := executor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.HallTypeStatistic
	for rows.Next() {
		var stat domain.HallTypeStatistic
		if err := rows.Scan(&stat.Type, &stat.HallCount, &stat.TotalCapacity, &stat.TotalOccupancy); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func scanHall(row pgx.Row) (*domain.Hall, error) {
	var hall domain.Hall
	if err := row.Scan(
		&hall.ID,
		&hall.Code,
		&hall.Name,
		&hall.FullName,
		&hall.Type,
		&hall.Capacity,
		&hall.CurrentOccupancy,
		&hall.Provost,
		&hall.Email,
		&hall.Phone,
		&hall.OfficeLocation,
		&hall.OfficeHours,
		&hall.Description,
		&hall.ImageURL,
		&hall.Facilities,
		&hall.IsActive,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &hall, nil
}

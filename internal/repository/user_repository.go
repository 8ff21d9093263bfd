package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sust-hall/hall-service/internal/domain"
)

// UserFilter narrows user listings. Nil fields are ignored.
type UserFilter struct {
	Status   *domain.AccountStatus
	Role     *domain.UserRole
	HallName *string
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
	UpdateRole(ctx context.Context, id string, role domain.UserRole) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	HallNames(ctx context.Context) ([]string, error)
	HallStatistics(ctx context.Context) ([]domain.HallStatistic, error)
}

type userRepository struct {
	pool Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, hall_name, role, password_hash, account_status, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, hall_name, role, password_hash, account_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	err := executor(ctx, r.pool).QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.HallName,
		user.Role,
		user.PasswordHash,
		user.AccountStatus,
		user.CreatedAt,
	).Scan(&user.ID)
	return mapWriteError(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, hall_name=$3, role=$4, password_hash=$5, account_status=$6
        WHERE id=$7`

	cmd, err := executor(ctx, r.pool).Exec(ctx, query,
		user.Name,
		user.Email,
		user.HallName,
		user.Role,
		user.PasswordHash,
		user.AccountStatus,
		user.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx, `UPDATE users SET account_status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	user, err := scanUser(executor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(executor(ctx, r.pool).QueryRow(ctx, query, email))
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := executor(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("account_status=$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.HallName != nil {
		args = append(args, *filter.HallName)
		clauses = append(clauses, fmt.Sprintf("hall_name=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC`,
		userColumns, strings.Join(clauses, " AND "))

	rows, err := executor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) HallNames(ctx context.Context) ([]string, error) {
	const query = `
        SELECT DISTINCT hall_name FROM users
        WHERE hall_name IS NOT NULL AND hall_name <> ''
        ORDER BY hall_name`
	rows, err := executor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *userRepository) HallStatistics(ctx context.Context) ([]domain.HallStatistic, error) {
	const query = `
        SELECT hall_name, COUNT(*) FROM users
        WHERE hall_name IS NOT NULL AND hall_name <> ''
        GROUP BY hall_name ORDER BY hall_name`
	rows, err := executor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.HallStatistic
	for rows.Next() {
		var stat domain.HallStatistic
		if err := rows.Scan(&stat.HallName, &stat.UserCount); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HallName,
		&user.Role,
		&user.PasswordHash,
		&user.AccountStatus,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sust-hall/hall-service/internal/domain"
)

// MenuItemFilter narrows menu listings. Nil fields are ignored. Date matches
// the calendar day only.
type MenuItemFilter struct {
	HallName *string
	Date     *time.Time
}

// MenuItemRepository persists published daily menus.
type MenuItemRepository interface {
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	List(ctx context.Context, filter MenuItemFilter) ([]domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

type menuItemRepository struct {
	pool Pool
}

// NewMenuItemRepository returns a Postgres-backed implementation.
func NewMenuItemRepository(pool Pool) MenuItemRepository {
	return &menuItemRepository{pool: pool}
}

const menuItemColumns = `id, hall_name, meal_time, item_name, price, menu_date, created_at, updated_at`

func (r *menuItemRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	const query = `
        INSERT INTO menu_items (hall_name, meal_time, item_name, price, menu_date, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return executor(ctx, r.pool).QueryRow(ctx, query,
		item.HallName,
		item.MealTime,
		item.ItemName,
		item.Price,
		item.Date,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID)
}

func (r *menuItemRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	const query = `
        UPDATE menu_items SET hall_name=$1, meal_time=$2, item_name=$3, price=$4, menu_date=$5, updated_at=$6
        WHERE id=$7`
	cmd, err := executor(ctx, r.pool).Exec(ctx, query,
		item.HallName,
		item.MealTime,
		item.ItemName,
		item.Price,
		item.Date,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *menuItemRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := scanMenuItem(executor(ctx, r.pool).QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id=$1`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return item, nil
}

func (r *menuItemRepository) List(ctx context.Context, filter MenuItemFilter) ([]domain.MenuItem, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.HallName != nil {
		args = append(args, *filter.HallName)
		clauses = append(clauses, fmt.Sprintf("hall_name=$%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, filter.Date.Format(time.DateOnly))
		clauses = append(clauses, fmt.Sprintf("menu_date=$%d::date", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE %s ORDER BY menu_date DESC, meal_time, item_name`,
		menuItemColumns, strings.Join(clauses, " AND "))

	rows, err := executor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func (r *menuItemRepository) Delete(ctx context.Context, id string) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM menu_items WHERE id=$1`, id)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanMenuItem(row pgx.Row) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := row.Scan(
		&item.ID,
		&item.HallName,
		&item.MealTime,
		&item.ItemName,
		&item.Price,
		&item.Date,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

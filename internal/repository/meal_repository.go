package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sust-hall/hall-service/internal/domain"
)

// MealOrder selects the sort order of a meal listing.
type MealOrder int

const (
	// MealOrderNewest lists the latest meal date first.
	MealOrderNewest MealOrder = iota
	// MealOrderOldest lists the earliest meal date first.
	MealOrderOldest
	// MealOrderByType groups a day's meals by sitting.
	MealOrderByType
)

var mealOrderClauses = map[MealOrder]string{
	MealOrderNewest: "m.meal_date DESC, m.created_at DESC",
	MealOrderOldest: "m.meal_date ASC, m.created_at ASC",
	MealOrderByType: "m.meal_type, m.meal_date, m.meal_name",
}

// MealFilter narrows meal listings. Nil fields are ignored; From is inclusive
// and To exclusive.
type MealFilter struct {
	HallID        *string
	Type          *domain.MealType
	AvailableOnly bool
	From          *time.Time
	To            *time.Time
	Order         MealOrder
}

// MealRepository persists hall dining meals.
type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) error
	Update(ctx context.Context, meal *domain.Meal) error
	GetByID(ctx context.Context, id string) (*domain.Meal, error)
	List(ctx context.Context, filter MealFilter) ([]domain.Meal, error)
	Delete(ctx context.Context, id string) error
}

type mealRepository struct {
	pool Pool
}

// NewMealRepository returns a Postgres-backed implementation.
func NewMealRepository(pool Pool) MealRepository {
	return &mealRepository{pool: pool}
}

const mealSelect = `
        SELECT m.id, m.hall_id, h.hall_name, m.meal_type, m.meal_name, m.description, m.price, m.quantity,
               m.meal_date, m.is_available, m.created_at, m.updated_at
        FROM meals m JOIN halls h ON h.id = m.hall_id`

func (r *mealRepository) Create(ctx context.Context, meal *domain.Meal) error {
	const query = `
        INSERT INTO meals (hall_id, meal_type, meal_name, description, price, quantity, meal_date, is_available, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`
	return executor(ctx, r.pool).QueryRow(ctx, query,
		meal.HallID,
		meal.Type,
		meal.Name,
		meal.Description,
		meal.Price,
		meal.Quantity,
		meal.MealDate,
		meal.IsAvailable,
		meal.CreatedAt,
		meal.UpdatedAt,
	).Scan(&meal.ID)
}

func (r *mealRepository) Update(ctx context.Context, meal *domain.Meal) error {
	const query = `
        UPDATE meals SET hall_id=$1, meal_type=$2, meal_name=$3, description=$4, price=$5, quantity=$6,
            meal_date=$7, is_available=$8, updated_at=$9
        WHERE id=$10`
	cmd, err := executor(ctx, r.pool).Exec(ctx, query,
		meal.HallID,
		meal.Type,
		meal.Name,
		meal.Description,
		meal.Price,
		meal.Quantity,
		meal.MealDate,
		meal.IsAvailable,
		meal.UpdatedAt,
		meal.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *mealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	meal, err := scanMeal(executor(ctx, r.pool).QueryRow(ctx, mealSelect+` WHERE m.id=$1`, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return meal, nil
}

func (r *mealRepository) List(ctx context.Context, filter MealFilter) ([]domain.Meal, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.HallID != nil {
		args = append(args, *filter.HallID)
		clauses = append(clauses, fmt.Sprintf("m.hall_id=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("m.meal_type=$%d", len(args)))
	}
	if filter.AvailableOnly {
		clauses = append(clauses, "m.is_available")
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("m.meal_date>=$%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("m.meal_date<$%d", len(args)))
	}

	order, ok := mealOrderClauses[filter.Order]
	if !ok {
		order = mealOrderClauses[MealOrderNewest]
	}
	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s`, mealSelect, strings.Join(clauses, " AND "), order)

	rows, err := executor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Meal
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *meal)
	}
	return result, rows.Err()
}

func (r *mealRepository) Delete(ctx context.Context, id string) error {
	cmd, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM meals WHERE id=$1`, id)
	if err != nil {
		return mapReadError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanMeal(row pgx.Row) (*domain.Meal, error) {
	var meal domain.Meal
	if err := row.Scan(
		&meal.ID,
		&meal.HallID,
		&meal.HallName,
		&meal.Type,
		&meal.Name,
		&meal.Description,
		&meal.Price,
		&meal.Quantity,
		&meal.MealDate,
		&meal.IsAvailable,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &meal, nil
}

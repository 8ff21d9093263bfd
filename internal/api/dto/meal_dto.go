package dto

import (
	"time"

	"github.com/sust-hall/hall-service/internal/domain"
)

// CreateMealRequest payload. MealDate defaults to now and IsAvailable to true.
type CreateMealRequest struct {
	HallID      string     `json:"hall_id"`
	Type        string     `json:"meal_type"`
	Name        string     `json:"meal_name"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	MealDate    *time.Time `json:"meal_date,omitempty"`
	IsAvailable *bool      `json:"is_available,omitempty"`
}

// UpdateMealRequest payload. Omitted fields keep their value.
type UpdateMealRequest struct {
	HallID      *string    `json:"hall_id,omitempty"`
	Type        *string    `json:"meal_type,omitempty"`
	Name        *string    `json:"meal_name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Quantity    *int       `json:"quantity,omitempty"`
	MealDate    *time.Time `json:"meal_date,omitempty"`
	IsAvailable *bool      `json:"is_available,omitempty"`
}

// MealResponse represents a meal with its hall name.
type MealResponse struct {
	ID          string          `json:"id"`
	HallID      string          `json:"hall_id"`
	HallName    string          `json:"hall_name"`
	Type        domain.MealType `json:"meal_type"`
	Name        string          `json:"meal_name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Quantity    int             `json:"quantity"`
	MealDate    time.Time       `json:"meal_date"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MenuItemRequest payload. Date is YYYY-MM-DD and defaults to today.
type MenuItemRequest struct {
	HallName string  `json:"hall_name"`
	MealTime string  `json:"meal_time"`
	ItemName string  `json:"item_name"`
	Price    float64 `json:"price"`
	Date     string  `json:"date,omitempty"`
}

// MenuItemResponse represents one published menu line.
type MenuItemResponse struct {
	ID        string          `json:"id"`
	HallName  string          `json:"hall_name"`
	MealTime  domain.MealType `json:"meal_time"`
	ItemName  string          `json:"item_name"`
	Price     float64         `json:"price"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

package domain

import (
	"strings"
	"time"
)

// MealType is the sitting a meal or menu item is served at.
type MealType string

const (
	MealTypeBreakfast MealType = "BREAKFAST"
	MealTypeLunch     MealType = "LUNCH"
	MealTypeDinner    MealType = "DINNER"
)

// Valid reports whether t is a recognized meal type.
func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	}
	return false
}

// ParseMealType normalizes and validates a meal type string.
func ParseMealType(raw string) (MealType, bool) {
	mealType := MealType(strings.ToUpper(strings.TrimSpace(raw)))
	return mealType, mealType.Valid()
}

// Meal is a dish a hall dining room offers on a given date.
type Meal struct {
	ID          string
	HallID      string
	HallName    string
	Type        MealType
	Name        string
	Description string
	Price       float64
	Quantity    int
	MealDate    time.Time
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MenuItem is one line of a hall's published daily menu. Halls are named
// rather than referenced so menus survive hall renames.
type MenuItem struct {
	ID        string
	HallName  string
	MealTime  MealType
	ItemName  string
	Price     float64
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

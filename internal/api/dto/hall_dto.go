package dto

import (
	"time"

	"github.com/sust-hall/hall-service/internal/domain"
)

// HallRequest payload for creating or replacing a hall. IsActive is kept as
// is when omitted.
type HallRequest struct {
	Code             string `json:"hall_code"`
	Name             string `json:"hall_name"`
	FullName         string `json:"full_name,omitempty"`
	Type             string `json:"type"`
	Capacity         int    `json:"capacity"`
	CurrentOccupancy int    `json:"current_occupancy"`
	Provost          string `json:"provost,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	OfficeLocation   string `json:"office_location,omitempty"`
	OfficeHours      string `json:"office_hours,omitempty"`
	Description      string `json:"description,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	Facilities       string `json:"facilities,omitempty"`
	IsActive         *bool  `json:"is_active,omitempty"`
}

// OccupancyRequest sets the number of residents in a hall.
type OccupancyRequest struct {
	Occupancy *int `json:"occupancy"`
}

// HallResponse represents a hall with its derived free seats.
type HallResponse struct {
	ID               string          `json:"id"`
	Code             string          `json:"hall_code"`
	Name             string          `json:"hall_name"`
	FullName         string          `json:"full_name"`
	Type             domain.HallType `json:"type"`
	Capacity         int             `json:"capacity"`
	CurrentOccupancy int             `json:"current_occupancy"`
	AvailableSeats   int             `json:"available_seats"`
	Provost          string          `json:"provost"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	OfficeLocation   string          `json:"office_location"`
	OfficeHours      string          `json:"office_hours"`
	Description      string          `json:"description"`
	ImageURL         string          `json:"image_url"`
	Facilities       string          `json:"facilities"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// HallTypeStatResponse aggregates active halls of one type.
type HallTypeStatResponse struct {
	Type           domain.HallType `json:"type"`
	HallCount      int             `json:"hall_count"`
	TotalCapacity  int             `json:"total_capacity"`
	TotalOccupancy int             `json:"total_occupancy"`
	AvailableSeats int             `json:"available_seats"`
}

// HallSummaryResponse aggregates every active hall.
type HallSummaryResponse struct {
	HallCount      int                    `json:"hall_count"`
	TotalCapacity  int                    `json:"total_capacity"`
	TotalOccupancy int                    `json:"total_occupancy"`
	AvailableSeats int                    `json:"available_seats"`
	ByType         []HallTypeStatResponse `json:"by_type"`
}

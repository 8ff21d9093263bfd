package domain

import (
	"strings"
	"time"
)

// HallType separates residence halls by the residents they house.
type HallType string

const (
	HallTypeMale   HallType = "MALE"
	HallTypeFemale HallType = "FEMALE"
)

// Valid reports whether t is a recognized hall type.
func (t HallType) Valid() bool {
	return t == HallTypeMale || t == HallTypeFemale
}

// ParseHallType normalizes and validates a hall type string.
func ParseHallType(raw string) (HallType, bool) {
	hallType := HallType(strings.ToUpper(strings.TrimSpace(raw)))
	return hallType, hallType.Valid()
}

// Hall is a residence hall. Deactivated halls are kept for history and hidden
// from public lookups.
type Hall struct {
	ID               string
	Code             string
	Name             string
	FullName         string
	Type             HallType
	Capacity         int
	CurrentOccupancy int
	Provost          string
	Email            string
	Phone            string
	OfficeLocation   string
	OfficeHours      string
	Description      string
	ImageURL         string
	Facilities       string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableSeats is the number of free places left in the hall.
func (h *Hall) AvailableSeats() int {
	return h.Capacity - h.CurrentOccupancy
}

// OccupancyFits reports whether occupancy lies within [0, capacity].
func (h *Hall) OccupancyFits(occupancy int) bool {
	return occupancy >= 0 && occupancy <= h.Capacity
}

// HallCapacitySummary aggregates seats across active halls.
type HallCapacitySummary struct {
	HallCount      int
	TotalCapacity  int
	TotalOccupancy int
}

// AvailableSeats is the number of free places across all active halls.
func (s HallCapacitySummary) AvailableSeats() int {
	return s.TotalCapacity - s.TotalOccupancy
}

// HallTypeStatistic aggregates active halls of one type.
type HallTypeStatistic struct {
	Type           HallType
	HallCount      int
	TotalCapacity  int
	TotalOccupancy int
}

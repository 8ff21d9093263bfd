package dto

import (
	"time"

	"github.com/sust-hall/hall-service/internal/domain"
)

// RegisterRequest payload for self-registration.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	HallName        string `json:"hall_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserRequest is the administrator payload for creating or replacing a user.
type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	HallName string `json:"hall_name"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// RoleUpdateRequest payload.
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	HallName      string               `json:"hall_name"`
	Role          domain.UserRole      `json:"role"`
	AccountStatus domain.AccountStatus `json:"account_status"`
	CreatedAt     time.Time            `json:"created_at"`
}

// HallStatisticResponse is one row of per-hall counts.
type HallStatisticResponse struct {
	HallName  string `json:"hall_name"`
	UserCount int    `json:"user_count"`
}

package domain

import (
	"strings"
	"time"
)

// UserRole enumerates the closed set of account roles.
type UserRole string

const (
	UserRoleStudent        UserRole = "STUDENT"
	UserRoleAdmin          UserRole = "ADMIN"
	UserRoleProvost        UserRole = "PROVOST"
	UserRoleTeacher        UserRole = "TEACHER"
	UserRoleStaff          UserRole = "STAFF"
	UserRoleCanteenManager UserRole = "CANTEEN_MANAGER"
)

var userRoles = []UserRole{
	UserRoleStudent,
	UserRoleAdmin,
	UserRoleProvost,
	UserRoleTeacher,
	UserRoleStaff,
	UserRoleCanteenManager,
}

// Valid reports whether r is a recognized role.
func (r UserRole) Valid() bool {
	for _, candidate := range userRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole normalizes and validates a role string.
func ParseUserRole(raw string) (UserRole, bool) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// AccountStatus represents the approval state of a user account.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "PENDING"
	AccountStatusApproved  AccountStatus = "APPROVED"
	AccountStatusRejected  AccountStatus = "REJECTED"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

var accountStatuses = []AccountStatus{
	AccountStatusPending,
	AccountStatusApproved,
	AccountStatusRejected,
	AccountStatusSuspended,
}

// Valid reports whether s is one of the four account states.
func (s AccountStatus) Valid() bool {
	for _, candidate := range accountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAccountStatus normalizes and validates a status string.
func ParseAccountStatus(raw string) (AccountStatus, bool) {
	status := AccountStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return status, status.Valid()
}

// Every state may currently move to every state. Narrow an entry to restrict.
var allowedAccountTransitions = map[AccountStatus][]AccountStatus{
	AccountStatusPending:   accountStatuses,
	AccountStatusApproved:  accountStatuses,
	AccountStatusRejected:  accountStatuses,
	AccountStatusSuspended: accountStatuses,
}

// CanTransitionAccount reports whether an account may move from current to next.
func CanTransitionAccount(current, next AccountStatus) bool {
	for _, candidate := range allowedAccountTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// User is a hall resident or staff account.
type User struct {
	ID            string
	Name          string
	Email         string
	HallName      string
	Role          UserRole
	PasswordHash  string
	AccountStatus AccountStatus
	CreatedAt     time.Time
}

// IsApproved reports whether the account may sign in.
func (u *User) IsApproved() bool {
	return u.AccountStatus == AccountStatusApproved
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HallStatistic is the number of registered users in one hall.
type HallStatistic struct {
	HallName  string
	UserCount int
}

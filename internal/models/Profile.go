package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Recognized profile roles.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleDriver = "driver"
)

// Profile carries the role tag for exactly one user.
type Profile struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Role   string `json:"role"` // "admin", "staff", "driver" (stored lowercase)
}

// NormalizeRole lowercases and validates a role name. An empty input
// falls back to "staff".
func NormalizeRole(role string) (string, error) {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		r = RoleStaff
	}
	switch r {
	case RoleAdmin, RoleStaff, RoleDriver:
		return r, nil
	}
	return "", errors.New("invalid role")
}

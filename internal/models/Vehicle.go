// internal/models/vehicle.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle statuses.
const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusMaintenance = "maintenance"
)

type Vehicle struct {
	gorm.Model
	RegistrationNo string `json:"registration_no" gorm:"uniqueIndex;not null"`
	Make           string `json:"make"`
	ModelName      string `json:"model" gorm:"column:model"`
	Year           *int   `json:"year"`
	Status         string `json:"status" gorm:"default:active"` // "active", "inactive", "maintenance"

	// Current driver; nulled when the user is deleted.
	DriverID *uint `json:"driver_id" gorm:"index"`
	Driver   *User `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"driver,omitempty"`

	// Last known position. Both coordinates must be present for the
	// vehicle to appear on the tracking feed.
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	LastLocationAt *time.Time `json:"last_location_at"`

	MaintenanceLogs []MaintenanceLog `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE;" json:"maintenance_logs,omitempty"`
	FuelLogs        []FuelLog        `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE;" json:"fuel_logs,omitempty"`
}

// ValidStatus reports whether s is one of the recognized vehicle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance:
		return true
	}
	return false
}

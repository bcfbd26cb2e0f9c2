package models

import (
	"time"

	"gorm.io/gorm"
)

// MaintenanceLog is an append-only service record for a vehicle.
// Deleted together with its vehicle; the creator reference is nulled
// when that user is deleted.
type MaintenanceLog struct {
	gorm.Model
	VehicleID   uint     `json:"vehicle_id" gorm:"index;not null"`
	Vehicle     *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Description string   `json:"description"`

	Date    time.Time  `json:"date" gorm:"index"`
	NextDue *time.Time `json:"next_due"`

	CreatedByID *uint `json:"created_by_id"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL;" json:"created_by,omitempty"`
}

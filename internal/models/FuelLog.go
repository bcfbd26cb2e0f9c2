package models

import (
	"time"

	"gorm.io/gorm"
)

// FuelLog records a refuelling against a vehicle. Same lifecycle as
// MaintenanceLog: cascade-deleted with the vehicle, creator nulled on
// user deletion.
type FuelLog struct {
	gorm.Model
	VehicleID uint     `json:"vehicle_id" gorm:"index;not null"`
	Vehicle   *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	Date     time.Time `json:"date" gorm:"index"`
	Liters   float64   `json:"liters"`
	Cost     float64   `json:"cost"`
	Odometer *int      `json:"odometer"`

	CreatedByID *uint `json:"created_by_id"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL;" json:"created_by,omitempty"`
}

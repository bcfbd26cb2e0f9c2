package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet_manager/internal/config"
	"fleet_manager/internal/middleware"
	"fleet_manager/internal/models"
)

// StaffDashboard shows the whole fleet plus the ten most recent
// maintenance and fuel entries.
func StaffDashboard(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Preload("Driver").Order("registration_no asc").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing vehicles: " + err.Error()})
		return
	}

	var maintenance []models.MaintenanceLog
	config.DB.Preload("Vehicle").Order("date desc").Limit(10).Find(&maintenance)

	var fuel []models.FuelLog
	config.DB.Preload("Vehicle").Order("date desc").Limit(10).Find(&fuel)

	c.JSON(http.StatusOK, gin.H{
		"vehicles":    vehicles,
		"maintenance": maintenance,
		"fuel_logs":   fuel,
	})
}

// DriverDashboard shows only the vehicles assigned to the acting
// driver, with their recent log entries. Log submission happens via
// the driver maintenance/fuel endpoints.
func DriverDashboard(c *gin.Context) {
	userID := middleware.UserID(c)

	var vehicles []models.Vehicle
	if err := config.DB.Where("driver_id = ?", userID).Order("registration_no asc").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing vehicles: " + err.Error()})
		return
	}

	ids := make([]uint, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID)
	}

	var maintenance []models.MaintenanceLog
	var fuel []models.FuelLog
	if len(ids) > 0 {
		config.DB.Preload("Vehicle").Where("vehicle_id IN ?", ids).Order("date desc").Limit(10).Find(&maintenance)
		config.DB.Preload("Vehicle").Where("vehicle_id IN ?", ids).Order("date desc").Limit(10).Find(&fuel)
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles":    vehicles,
		"maintenance": maintenance,
		"fuel_logs":   fuel,
	})
}

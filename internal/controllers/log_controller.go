package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"fleet_manager/internal/config"
	"fleet_manager/internal/middleware"
	"fleet_manager/internal/models"
)

const dateLayout = "2006-01-02"

// parseDateOr parses a YYYY-MM-DD field, defaulting to today when the
// field is empty (matches the form behavior where date pre-fills with
// the current date).
func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.Parse(dateLayout, s)
}

// driverOwnsVehicle checks that the vehicle is currently assigned to
// the acting driver. Log submission is scoped to assigned vehicles.
func driverOwnsVehicle(userID, vehicleID uint) (bool, error) {
	var count int64
	err := config.DB.Model(&models.Vehicle{}).
		Where("id = ? AND driver_id = ?", vehicleID, userID).
		Count(&count).Error
	return count > 0, err
}

type maintenanceInput struct {
	VehicleID   uint   `json:"vehicle_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	Date        string `json:"date"`
	NextDue     string `json:"next_due"`
}

// CreateMaintenanceLog records a service entry against one of the
// caller's assigned vehicles, stamped with the creator.
func CreateMaintenanceLog(c *gin.Context) {
	userID := middleware.UserID(c)

	var input maintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owns, err := driverOwnsVehicle(userID, input.VehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !owns {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle is not assigned to you"})
		return
	}

	date, err := parseDateOr(input.Date, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	entry := models.MaintenanceLog{
		VehicleID:   input.VehicleID,
		Description: input.Description,
		Date:        date,
		CreatedByID: &userID,
	}
	if input.NextDue != "" {
		nextDue, err := time.Parse(dateLayout, input.NextDue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid next_due, expected YYYY-MM-DD"})
			return
		}
		entry.NextDue = &nextDue
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save maintenance log: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{"vehicle_id": entry.VehicleID, "user_id": userID}).Info("maintenance log saved")
	c.JSON(http.StatusCreated, gin.H{"maintenance_log": entry})
}

type fuelInput struct {
	VehicleID uint    `json:"vehicle_id" binding:"required"`
	Date      string  `json:"date"`
	Liters    float64 `json:"liters" binding:"required"`
	Cost      float64 `json:"cost" binding:"required"`
	Odometer  *int    `json:"odometer"`
}

// CreateFuelLog records a refuelling against one of the caller's
// assigned vehicles, stamped with the creator.
func CreateFuelLog(c *gin.Context) {
	userID := middleware.UserID(c)

	var input fuelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owns, err := driverOwnsVehicle(userID, input.VehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !owns {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle is not assigned to you"})
		return
	}

	date, err := parseDateOr(input.Date, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	entry := models.FuelLog{
		VehicleID:   input.VehicleID,
		Date:        date,
		Liters:      input.Liters,
		Cost:        input.Cost,
		Odometer:    input.Odometer,
		CreatedByID: &userID,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save fuel log: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{"vehicle_id": entry.VehicleID, "user_id": userID}).Info("fuel log saved")
	c.JSON(http.StatusCreated, gin.H{"fuel_log": entry})
}

// MaintenanceList returns every maintenance log, newest first, joined
// with its vehicle and creator for display.
func MaintenanceList(c *gin.Context) {
	var items []models.MaintenanceLog
	if err := config.DB.Preload("Vehicle").Preload("CreatedBy").Order("date desc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing maintenance logs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// FuelList returns every fuel log, newest first, joined with its
// vehicle and creator for display.
func FuelList(c *gin.Context) {
	var items []models.FuelLog
	if err := config.DB.Preload("Vehicle").Preload("CreatedBy").Order("date desc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing fuel logs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

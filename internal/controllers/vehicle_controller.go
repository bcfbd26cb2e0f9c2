package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fleet_manager/internal/config"
	"fleet_manager/internal/geocode"
	"fleet_manager/internal/middleware"
	"fleet_manager/internal/models"
)

type vehicleInput struct {
	RegistrationNo string `json:"registration_no" binding:"required"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           *int   `json:"year"`
	Status         string `json:"status"`
	DriverID       *uint  `json:"driver_id"`
	Place          string `json:"place"`
}

var errNotADriver = errors.New("assigned user must have the driver role")

// validateDriver checks that the optional assignee exists and carries
// the driver role.
func validateDriver(driverID *uint) error {
	if driverID == nil {
		return nil
	}
	var user models.User
	if err := config.DB.Preload("Profile").First(&user, *driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotADriver
		}
		return err
	}
	if roleOf(user) != models.RoleDriver {
		return errNotADriver
	}
	return nil
}

// applyPlace resolves an optional place name and stamps the vehicle's
// coordinates. Resolution failure is logged and swallowed; the save
// proceeds without location data.
func applyPlace(v *models.Vehicle, place string) {
	if place == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pt, err := geocode.Default.Lookup(ctx, place)
	if err != nil {
		logrus.WithError(err).WithField("place", place).Warn("geocode lookup failed; saving without location")
		return
	}
	lat, lng := pt.Y(), pt.X()
	now := time.Now().UTC()
	v.Latitude = &lat
	v.Longitude = &lng
	v.LastLocationAt = &now
}

// registrationTaken reports whether another vehicle already uses reg.
func registrationTaken(reg string, excludeID uint) (bool, error) {
	var count int64
	q := config.DB.Model(&models.Vehicle{}).Where("registration_no = ?", reg)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func respondVehicleSaveError(c *gin.Context, err error) {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		c.JSON(http.StatusConflict, gin.H{"error": "registration number already in use"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save vehicle: " + err.Error()})
}

// CreateVehicle registers a new vehicle; status defaults to active.
func CreateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle input: " + err.Error()})
		return
	}

	status := input.Status
	if status == "" {
		status = models.StatusActive
	}
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	taken, err := registrationTaken(input.RegistrationNo, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "registration number already in use"})
		return
	}

	if err := validateDriver(input.DriverID); err != nil {
		if errors.Is(err, errNotADriver) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	vehicle := models.Vehicle{
		RegistrationNo: input.RegistrationNo,
		Make:           input.Make,
		ModelName:      input.Model,
		Year:           input.Year,
		Status:         status,
		DriverID:       input.DriverID,
	}
	applyPlace(&vehicle, input.Place)

	if err := config.DB.Create(&vehicle).Error; err != nil {
		respondVehicleSaveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// EditVehicle updates every editable field of an existing vehicle.
func EditVehicle(c *gin.Context) {
	vehicle, ok := findVehicle(c)
	if !ok {
		return
	}

	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle input: " + err.Error()})
		return
	}

	status := input.Status
	if status == "" {
		status = vehicle.Status
	}
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	taken, err := registrationTaken(input.RegistrationNo, vehicle.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "registration number already in use"})
		return
	}

	if err := validateDriver(input.DriverID); err != nil {
		if errors.Is(err, errNotADriver) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	vehicle.RegistrationNo = input.RegistrationNo
	vehicle.Make = input.Make
	vehicle.ModelName = input.Model
	vehicle.Year = input.Year
	vehicle.Status = status
	vehicle.DriverID = input.DriverID
	applyPlace(&vehicle, input.Place)

	if err := config.DB.Save(&vehicle).Error; err != nil {
		respondVehicleSaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// AssignVehicle updates only the driver reference and status.
func AssignVehicle(c *gin.Context) {
	vehicle, ok := findVehicle(c)
	if !ok {
		return
	}

	var input struct {
		DriverID *uint  `json:"driver_id"`
		Status   string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Status != "" {
		if !models.ValidStatus(input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		vehicle.Status = input.Status
	}

	if err := validateDriver(input.DriverID); err != nil {
		if errors.Is(err, errNotADriver) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	vehicle.DriverID = input.DriverID

	if err := config.DB.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// ListVehicles supports free-text search over registration/make/model
// plus an exact status filter, and returns counters computed over the
// filtered set.
func ListVehicles(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	status := strings.TrimSpace(c.Query("status"))

	filtered := func() *gorm.DB {
		query := config.DB.Model(&models.Vehicle{})
		if q != "" {
			pattern := "%" + strings.ToLower(q) + "%"
			query = query.Where(
				"LOWER(registration_no) LIKE ? OR LOWER(make) LIKE ? OR LOWER(model) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		if status != "" {
			query = query.Where("status = ?", status)
		}
		return query
	}

	var vehicles []models.Vehicle
	if err := filtered().Preload("Driver").Order("registration_no asc").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing vehicles: " + err.Error()})
		return
	}

	var total, assigned, maintenance int64
	filtered().Count(&total)
	filtered().Where("driver_id IS NOT NULL").Count(&assigned)
	filtered().Where("status = ?", models.StatusMaintenance).Count(&maintenance)

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"q":        q,
		"status":   status,
		"stats": gin.H{
			"total":       total,
			"assigned":    assigned,
			"maintenance": maintenance,
		},
	})
}

// DeleteVehicle hard-deletes a vehicle and, explicitly, its logs.
func DeleteVehicle(c *gin.Context) {
	vehicle, ok := findVehicle(c)
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("vehicle_id = ?", vehicle.ID).Delete(&models.MaintenanceLog{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("vehicle_id = ?", vehicle.ID).Delete(&models.FuelLog{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Vehicle{}, vehicle.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete vehicle: " + err.Error()})
		return
	}

	logrus.WithField("registration_no", vehicle.RegistrationNo).Info("vehicle deleted")
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}

// VehicleDetail returns one vehicle with its ten most recent
// maintenance and fuel entries. Drivers may only view vehicles
// currently assigned to them; admin and staff see everything.
func VehicleDetail(c *gin.Context) {
	vehID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Preload("Driver").First(&vehicle, uint(vehID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	if middleware.Role(c) == models.RoleDriver && !middleware.IsSuperuser(c) {
		userID := middleware.UserID(c)
		if vehicle.DriverID == nil || *vehicle.DriverID != userID {
			middleware.Forbidden(c)
			return
		}
	}

	var maintenance []models.MaintenanceLog
	config.DB.Where("vehicle_id = ?", vehicle.ID).Order("date desc").Limit(10).Find(&maintenance)

	var fuel []models.FuelLog
	config.DB.Where("vehicle_id = ?", vehicle.ID).Order("date desc").Limit(10).Find(&fuel)

	c.JSON(http.StatusOK, gin.H{
		"vehicle":     vehicle,
		"maintenance": maintenance,
		"fuel_logs":   fuel,
	})
}

// findVehicle loads the vehicle named by the :id parameter, writing the
// error response itself when that fails.
func findVehicle(c *gin.Context) (models.Vehicle, bool) {
	var vehicle models.Vehicle
	vehID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return vehicle, false
	}
	if err := config.DB.First(&vehicle, uint(vehID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return vehicle, false
	}
	return vehicle, true
}

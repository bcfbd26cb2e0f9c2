package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fleet_manager/internal/config"
	"fleet_manager/internal/models"
)

// AdminDashboard returns the aggregate view: every vehicle and profile
// plus fleet-wide counters for the dashboard charts.
func AdminDashboard(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Preload("Driver").Order("registration_no asc").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing vehicles: " + err.Error()})
		return
	}

	var profiles []models.Profile
	config.DB.Find(&profiles)

	var maintenance []models.MaintenanceLog
	config.DB.Preload("Vehicle").Order("date desc").Find(&maintenance)

	var fuel []models.FuelLog
	config.DB.Preload("Vehicle").Order("date desc").Find(&fuel)

	var total, assigned, underMaintenance, active int64
	config.DB.Model(&models.Vehicle{}).Count(&total)
	config.DB.Model(&models.Vehicle{}).Where("driver_id IS NOT NULL").Count(&assigned)
	config.DB.Model(&models.Vehicle{}).Where("status = ?", models.StatusMaintenance).Count(&underMaintenance)
	config.DB.Model(&models.Vehicle{}).Where("status = ?", models.StatusActive).Count(&active)

	c.JSON(http.StatusOK, gin.H{
		"vehicles":         vehicles,
		"profiles":         profiles,
		"maintenance_logs": maintenance,
		"fuel_logs":        fuel,
		"chart_data": gin.H{
			"total_vehicles":    total,
			"assigned":          assigned,
			"not_assigned":      total - assigned,
			"under_maintenance": underMaintenance,
			"active":            active,
		},
	})
}

type staffAccountInput struct {
	registerInput
	Role string `json:"role"`
}

// RegisterStaff lets an admin create staff or admin accounts with an
// operator-chosen role (default "staff").
func RegisterStaff(c *gin.Context) {
	var input staffAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := models.NormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := createUserWithRole(input.registerInput, role)
	if err != nil {
		respondUserCreateError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"username": user.Username, "role": role}).Info("account created by admin")
	c.JSON(http.StatusCreated, gin.H{"user": prepareUserResponse(user)})
}

// AddDriver creates driver accounts; the role is always "driver".
func AddDriver(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := createUserWithRole(input, models.RoleDriver)
	if err != nil {
		respondUserCreateError(c, err)
		return
	}

	logrus.WithField("username", user.Username).Info("driver account created")
	c.JSON(http.StatusCreated, gin.H{"user": prepareUserResponse(user)})
}

// DeleteProfile removes a profile together with its linked user. The
// cascade is an explicit contract: vehicles lose their driver reference
// and logs lose their creator reference, then both records go.
func DeleteProfile(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, uint(profileID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).Where("driver_id = ?", profile.UserID).Update("driver_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MaintenanceLog{}).Where("created_by_id = ?", profile.UserID).Update("created_by_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.FuelLog{}).Where("created_by_id = ?", profile.UserID).Update("created_by_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.Profile{}, profile.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, profile.UserID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete profile: " + err.Error()})
		return
	}

	logrus.WithField("user_id", profile.UserID).Info("profile and user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"fleet_manager/internal/config"
	"fleet_manager/internal/models"
)

// trackedVehicle is one entry of the map polling feed.
type trackedVehicle struct {
	ID      uint    `json:"id"`
	Reg     string  `json:"reg"`
	Make    string  `json:"make"`
	Model   string  `json:"model"`
	Status  string  `json:"status"`
	Driver  *string `json:"driver"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Updated *string `json:"updated"`
}

// VehicleTrackData returns the location feed for map polling. Vehicles
// missing either coordinate are omitted entirely.
func VehicleTrackData(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Preload("Driver").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing vehicles: " + err.Error()})
		return
	}

	data := make([]trackedVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Latitude == nil || v.Longitude == nil {
			continue
		}

		entry := trackedVehicle{
			ID:     v.ID,
			Reg:    v.RegistrationNo,
			Make:   v.Make,
			Model:  v.ModelName,
			Status: v.Status,
			Lat:    *v.Latitude,
			Lng:    *v.Longitude,
		}
		if v.Driver != nil {
			username := v.Driver.Username
			entry.Driver = &username
		}
		if v.LastLocationAt != nil {
			updated := v.LastLocationAt.Format(time.RFC3339)
			entry.Updated = &updated
		}
		data = append(data, entry)
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": data})
}

// UpdateVehicleLocation sets a vehicle's coordinates manually and
// stamps the update time.
func UpdateVehicleLocation(c *gin.Context) {
	vehicle, ok := findVehicle(c)
	if !ok {
		return
	}

	var input struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	vehicle.Latitude = input.Latitude
	vehicle.Longitude = input.Longitude
	vehicle.LastLocationAt = &now

	if err := config.DB.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update location: " + err.Error()})
		return
	}

	logrus.WithField("registration_no", vehicle.RegistrationNo).Info("vehicle location updated")
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_manager/internal/config"
	"fleet_manager/internal/models"
)

func TestAdminDashboardStats(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)
	driver := createUser(t, "john", models.RoleDriver, false)

	createVehicle(t, "KA01AB1234", "Toyota", "HiAce", &driver.ID)
	createVehicle(t, "KA02CD5678", "Isuzu", "NQR", nil)
	broken := createVehicle(t, "KA03EF9012", "Tata", "407", nil)
	require.NoError(t, config.DB.Model(&broken).Update("status", models.StatusMaintenance).Error)

	w := doJSON(t, r, http.MethodGet, "/admin/dashboard/", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	chart := body["chart_data"].(map[string]any)
	assert.EqualValues(t, 3, chart["total_vehicles"])
	assert.EqualValues(t, 1, chart["assigned"])
	assert.EqualValues(t, 2, chart["not_assigned"])
	assert.EqualValues(t, 1, chart["under_maintenance"])
	assert.EqualValues(t, 2, chart["active"])
}

func TestAdminDashboardForbiddenForStaff(t *testing.T) {
	r := setupRouter(t)
	staff := createUser(t, "clerk", models.RoleStaff, false)

	w := doJSON(t, r, http.MethodGet, "/admin/dashboard/", tokenFor(t, staff), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterStaffWithChosenRole(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)

	w := doJSON(t, r, http.MethodPost, "/admin/register-staff/", tokenFor(t, admin), map[string]any{
		"username": "second-admin",
		"password": "passw0rd!",
		"role":     "Admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, config.DB.Preload("Profile").Where("username = ?", "second-admin").First(&user).Error)
	require.NotNil(t, user.Profile)
	assert.Equal(t, models.RoleAdmin, user.Profile.Role, "role is normalized to lowercase")
}

func TestRegisterStaffRejectsUnknownRole(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)

	w := doJSON(t, r, http.MethodPost, "/admin/register-staff/", tokenFor(t, admin), map[string]any{
		"username": "weird",
		"password": "passw0rd!",
		"role":     "superhero",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddDriverForcesDriverRole(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)

	w := doJSON(t, r, http.MethodPost, "/admin/add-driver/", tokenFor(t, admin), map[string]any{
		"username": "john",
		"password": "passw0rd!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, config.DB.Preload("Profile").Where("username = ?", "john").First(&user).Error)
	require.NotNil(t, user.Profile)
	assert.Equal(t, models.RoleDriver, user.Profile.Role)
}

func TestDeleteProfileCascades(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)
	driver := createUser(t, "john", models.RoleDriver, false)
	vehicle := createVehicle(t, "KA01AB1234", "Toyota", "HiAce", &driver.ID)

	require.NoError(t, config.DB.Create(&models.FuelLog{
		VehicleID:   vehicle.ID,
		Liters:      40,
		Cost:        62.5,
		CreatedByID: &driver.ID,
	}).Error)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/admin/profiles/%d/delete/", driver.Profile.ID), tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The linked user is gone together with the profile.
	var count int64
	config.DB.Model(&models.User{}).Where("username = ?", "john").Count(&count)
	assert.EqualValues(t, 0, count)
	config.DB.Model(&models.Profile{}).Where("user_id = ?", driver.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	// The vehicle lost its driver reference but survived.
	var got models.Vehicle
	require.NoError(t, config.DB.First(&got, vehicle.ID).Error)
	assert.Nil(t, got.DriverID)

	// Log entries keep their data but lose the creator reference.
	var fuel models.FuelLog
	require.NoError(t, config.DB.First(&fuel).Error)
	assert.Nil(t, fuel.CreatedByID)
}

func TestDeleteProfileNotFound(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)

	w := doJSON(t, r, http.MethodPost, "/admin/profiles/9999/delete/", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

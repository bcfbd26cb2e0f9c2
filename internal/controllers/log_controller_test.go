package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_manager/internal/config"
	"fleet_manager/internal/models"
)

func TestDriverSubmitsFuelLog(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)
	driver := createUser(t, "john", models.RoleDriver, false)
	vehicle := createVehicle(t, "KA01AB1234", "Toyota", "HiAce", &driver.ID)

	w := doJSON(t, r, http.MethodPost, "/driver/fuel/", tokenFor(t, driver), map[string]any{
		"vehicle_id": vehicle.ID,
		"liters":     42.5,
		"cost":       80.0,
		"odometer":   120500,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var entry models.FuelLog
	require.NoError(t, config.DB.First(&entry).Error)
	require.NotNil(t, entry.CreatedByID)
	assert.Equal(t, driver.ID, *entry.CreatedByID)
	assert.InDelta(t, 42.5, entry.Liters, 1e-9)

	// The admin fuel listing shows the entry with its creator.
	w = doJSON(t, r, http.MethodGet, "/admin/fuel/", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	created := item["created_by"].(map[string]any)
	assert.Equal(t, "john", created["username"])
}

func TestDriverCannotLogAgainstForeignVehicle(t *testing.T) {
	r := setupRouter(t)
	john := createUser(t, "john", models.RoleDriver, false)
	jane := createUser(t, "jane", models.RoleDriver, false)
	other := createVehicle(t, "KA02CD5678", "Isuzu", "NQR", &jane.ID)

	w := doJSON(t, r, http.MethodPost, "/driver/fuel/", tokenFor(t, john), map[string]any{
		"vehicle_id": other.ID,
		"liters":     10.0,
		"cost":       20.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/driver/maintenance/", tokenFor(t, john), map[string]any{
		"vehicle_id":  other.ID,
		"description": "brakes",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMaintenanceLogDateDefaultsToToday(t *testing.T) {
	r := setupRouter(t)
	driver := createUser(t, "john", models.RoleDriver, false)
	vehicle := createVehicle(t, "KA01AB1234", "Toyota", "HiAce", &driver.ID)

	w := doJSON(t, r, http.MethodPost, "/driver/maintenance/", tokenFor(t, driver), map[string]any{
		"vehicle_id":  vehicle.ID,
		"description": "oil change",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var entry models.MaintenanceLog
	require.NoError(t, config.DB.First(&entry).Error)
	assert.WithinDuration(t, time.Now().UTC(), entry.Date, time.Minute)
}

func TestMaintenanceLogParsesDates(t *testing.T) {
	r := setupRouter(t)
	driver := createUser(t, "john", models.RoleDriver, false)
	vehicle := createVehicle(t, "KA01AB1234", "Toyota", "HiAce", &driver.ID)

	w := doJSON(t, r, http.MethodPost, "/driver/maintenance/", tokenFor(t, driver), map[string]any{
		"vehicle_id":  vehicle.ID,
		"description": "major service",
		"date":        "2026-08-01",
		"next_due":    "2026-11-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var entry models.MaintenanceLog
	require.NoError(t, config.DB.First(&entry).Error)
	assert.Equal(t, "2026-08-01", entry.Date.Format("2006-01-02"))
	require.NotNil(t, entry.NextDue)
	assert.Equal(t, "2026-11-01", entry.NextDue.Format("2006-01-02"))

	w = doJSON(t, r, http.MethodPost, "/driver/maintenance/", tokenFor(t, driver), map[string]any{
		"vehicle_id":  vehicle.ID,
		"description": "bad date",
		"date":        "01/08/2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogListingsOrderedByDateDescending(t *testing.T) {
	r := setupRouter(t)
	admin := createUser(t, "boss", models.RoleAdmin, false)
	vehicle := createVehicle(t, "KA01AB1234", "Toyota", "HiAce", nil)

	old := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, config.DB.Create(&models.MaintenanceLog{VehicleID: vehicle.ID, Description: "old", Date: old}).Error)
	require.NoError(t, config.DB.Create(&models.MaintenanceLog{VehicleID: vehicle.ID, Description: "recent", Date: recent}).Error)

	w := doJSON(t, r, http.MethodGet, "/admin/maintenance/", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "recent", items[0].(map[string]any)["description"])
	assert.Equal(t, "old", items[1].(map[string]any)["description"])
}

func TestDriverDashboardShowsOwnVehicles(t *testing.T) {
	r := setupRouter(t)
	john := createUser(t, "john", models.RoleDriver, false)
	jane := createUser(t, "jane", models.RoleDriver, false)
	mine := createVehicle(t, "KA01AB1234", "Toyota", "HiAce", &john.ID)
	createVehicle(t, "KA02CD5678", "Isuzu", "NQR", &jane.ID)

	require.NoError(t, config.DB.Create(&models.FuelLog{VehicleID: mine.ID, Liters: 30, Cost: 45}).Error)

	w := doJSON(t, r, http.MethodGet, "/driver/dashboard/", tokenFor(t, john), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	vehicles := body["vehicles"].([]any)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "KA01AB1234", vehicles[0].(map[string]any)["registration_no"])
	assert.Len(t, body["fuel_logs"].([]any), 1)
}

func TestStaffDashboardShowsFleet(t *testing.T) {
	r := setupRouter(t)
	staff := createUser(t, "clerk", models.RoleStaff, false)
	createVehicle(t, "KA01AB1234", "Toyota", "HiAce", nil)
	createVehicle(t, "KA02CD5678", "Isuzu", "NQR", nil)

	w := doJSON(t, r, http.MethodGet, "/staff/dashboard/", tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Len(t, body["vehicles"].([]any), 2)
}

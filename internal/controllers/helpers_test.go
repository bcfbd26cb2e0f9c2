package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fleet_manager/internal/config"
	"fleet_manager/internal/middleware"
	"fleet_manager/internal/models"
	"fleet_manager/internal/routes"
)

const testPassword = "passw0rd!"

// setupRouter wires a fresh in-memory database into the global handle
// and returns the full route table.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	config.DB = db

	return routes.SetupRouter()
}

func createUser(t *testing.T, username, role string, superuser bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Username: username, Password: string(hash), IsSuperuser: superuser}
	require.NoError(t, config.DB.Create(&user).Error)

	if role != "" {
		profile := models.Profile{UserID: user.ID, Role: role}
		require.NoError(t, config.DB.Create(&profile).Error)
		user.Profile = &profile
	}
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	role := ""
	if user.Profile != nil {
		role = user.Profile.Role
	}
	token, err := middleware.GenerateToken(user.ID, role, user.IsSuperuser)
	require.NoError(t, err)
	return token
}

func createVehicle(t *testing.T, reg, make, model string, driverID *uint) models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{
		RegistrationNo: reg,
		Make:           make,
		ModelName:      model,
		Status:         models.StatusActive,
		DriverID:       driverID,
	}
	require.NoError(t, config.DB.Create(&vehicle).Error)
	return vehicle
}

// doJSON performs a request against the router, optionally with a JSON
// body and bearer token.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

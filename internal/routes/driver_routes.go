package routes

import (
	"fleet_manager/internal/controllers"
	"fleet_manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireRoles("driver"))
	{
		driver.GET("/dashboard/", controllers.DriverDashboard)
		driver.POST("/maintenance/", controllers.CreateMaintenanceLog)
		driver.POST("/fuel/", controllers.CreateFuelLog)
	}
}

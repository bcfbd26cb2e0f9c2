package routes

import (
	"fleet_manager/internal/controllers"
	"fleet_manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireRoles("admin"))
	{
		admin.GET("/dashboard/", controllers.AdminDashboard)
		admin.POST("/register-staff/", controllers.RegisterStaff)
		admin.POST("/add-driver/", controllers.AddDriver)
		admin.POST("/profiles/:id/delete/", controllers.DeleteProfile)
		admin.GET("/maintenance/", controllers.MaintenanceList)
		admin.GET("/fuel/", controllers.FuelList)
	}
}

package routes

import (
	"fleet_manager/internal/controllers"
	"fleet_manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func StaffRoutes(r *gin.Engine) {
	staff := r.Group("/staff")
	staff.Use(middleware.RequireRoles("staff"))
	{
		staff.GET("/dashboard/", controllers.StaffDashboard)
		staff.POST("/vehicles/:id/assign/", controllers.AssignVehicle)
	}
}

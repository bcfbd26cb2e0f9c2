package routes

import (
	"fleet_manager/internal/controllers"
	"fleet_manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func VehicleRoutes(r *gin.Engine) {
	// Fleet management, shared between admin and staff.
	fleet := r.Group("/admin/vehicles")
	fleet.Use(middleware.RequireRoles("admin", "staff"))
	{
		fleet.GET("/", controllers.ListVehicles)
		fleet.POST("/", controllers.CreateVehicle)
		fleet.GET("/track-data/", controllers.VehicleTrackData)
		fleet.POST("/:id/edit/", controllers.EditVehicle)
		fleet.POST("/:id/assign/", controllers.AssignVehicle)
		fleet.POST("/:id/delete/", controllers.DeleteVehicle)
		fleet.POST("/:id/update-location/", controllers.UpdateVehicleLocation)
	}

	// Detail view is open to drivers too; the handler enforces the
	// assignment-ownership check for them.
	r.GET("/vehicles/:id/", middleware.RequireRoles("admin", "staff", "driver"), controllers.VehicleDetail)
}

package routes

import (
	"fleet_manager/internal/controllers"
	"fleet_manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	r.GET("/", controllers.Index)
	r.POST("/login/", controllers.LoginUser)
	r.POST("/logout/", controllers.LogoutUser)
	r.POST("/register/", controllers.RegisterUser)
	r.GET("/whoami/", middleware.RequireAuth(), controllers.WhoAmI)
}

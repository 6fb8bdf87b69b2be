package routes

import (
	"civictrack-be/controllers"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the user lookup routes
func UserRoutes(r *gin.Engine) {
	r.GET("/api/users", controllers.GetUsers)
	r.GET("/api/volunteers", controllers.GetVolunteers)
}

package routes

import (
	"civictrack-be/controllers"
	"civictrack-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. The all-issues listing is public;
// everything else goes through the auth middleware. rateLimit wraps issue
// creation when Redis is configured.
func IssueRoutes(r *gin.Engine, rateLimit gin.HandlerFunc) {
	issue := r.Group("/api/issues")
	{
		create := []gin.HandlerFunc{middlewares.AuthMiddleware()}
		if rateLimit != nil {
			create = append(create, rateLimit)
		}
		create = append(create, controllers.CreateIssue)
		issue.POST("", create...)

		issue.GET("", controllers.GetAllIssues)
		issue.GET("/my-issues", middlewares.AuthMiddleware(), controllers.GetMyIssues)
		issue.GET("/filter", middlewares.AuthMiddleware(), controllers.FilterIssues)
		issue.GET("/assigned", middlewares.AuthMiddleware(), controllers.GetAssignedIssues)
		issue.PUT("/:id/status", middlewares.AuthMiddleware(), controllers.UpdateIssueStatus)
		issue.PUT("/:id/assign", middlewares.AuthMiddleware(), controllers.AssignVolunteer)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"report2resolve-be/middlewares"
	"report2resolve-be/models"
)

// IssueRoutes sets up the public and citizen issue routes
func IssueRoutes(api *gin.RouterGroup, d Deps) {
	ctl := d.Controller
	api.GET("/statuses", ctl.GetStatuses)
	api.GET("/categories", ctl.GetCategories)
	api.GET("/departments", ctl.GetDepartments)

	api.POST("/create-issue",
		d.Auth.OptionalAuth(),
		middlewares.IssueRateLimiter(d.RateLimit, d.RateLimitPrefix, d.IssueDailyLimit),
		ctl.CreateIssue,
	)
	api.GET("/my-issues", d.Auth.RequireAuth(), middlewares.RequirePortal(models.PortalCitizen), ctl.GetMyIssues)
}

// DepartmentRoutes sets up the department portal routes
func DepartmentRoutes(api *gin.RouterGroup, d Deps) {
	ctl := d.Controller
	dept := api.Group("/dept", d.Auth.RequireAuth(), middlewares.RequirePortal(models.PortalDepartment))
	{
		dept.GET("/issues/:dept", ctl.GetDepartmentIssues)
		dept.GET("/stats/:dept", ctl.GetDepartmentStats)
		dept.POST("/update-status/:id", ctl.UpdateIssueStatus)
	}
}

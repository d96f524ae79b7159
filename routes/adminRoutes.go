package routes

import (
	"github.com/gin-gonic/gin"

	"report2resolve-be/middlewares"
	"report2resolve-be/models"
)

// AdminRoutes sets up the admin portal routes
func AdminRoutes(api *gin.RouterGroup, d Deps) {
	ctl := d.Controller
	admin := api.Group("/admin", d.Auth.RequireAuth(), middlewares.RequirePortal(models.PortalAdmin))
	{
		admin.GET("/pending-approvals", ctl.GetPendingApprovals)
		admin.POST("/approve/:id", ctl.ApproveRequest)
		admin.DELETE("/reject/:id", ctl.RejectRequest)
		admin.GET("/all-issues", ctl.GetAllIssues)
		admin.GET("/stats", ctl.GetAllStats)
	}
}

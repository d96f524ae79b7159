package routes

import "github.com/gin-gonic/gin"

// AuthRoutes sets up the authentication routes
func AuthRoutes(api *gin.RouterGroup, d Deps) {
	ctl := d.Controller
	auth := api.Group("/auth")
	{
		auth.POST("/register", ctl.RegisterUser)
		auth.POST("/dept-signup", ctl.DepartmentSignup)
		auth.POST("/login", ctl.LoginUser)
		auth.POST("/logout", d.Auth.RequireAuth(), ctl.LogoutUser)
		auth.GET("/me", d.Auth.RequireAuth(), ctl.GetMe)
	}
	api.GET("/guard/:portal", d.Auth.OptionalAuth(), ctl.Guard)
}

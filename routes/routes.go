package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"report2resolve-be/controllers"
	"report2resolve-be/middlewares"
	"report2resolve-be/repository"
)

// Deps is what the route tables need.
type Deps struct {
	Controller      *controllers.Controller
	Auth            *middlewares.Authenticator
	RateLimit       repository.KV
	RateLimitPrefix string
	IssueDailyLimit int
}

// Register mounts every route on r.
func Register(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Report2Resolve API"})
	})

	AuthRoutes(api, d)
	IssueRoutes(api, d)
	DepartmentRoutes(api, d)
	AdminRoutes(api, d)
}

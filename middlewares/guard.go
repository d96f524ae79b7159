package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"report2resolve-be/models"
	"report2resolve-be/workflow"
)

// RequirePortal lets a request through only if the caller may enter portal.
// Signed-out callers get 401, callers with another role get 403 and the
// portal they belong to.
func RequirePortal(portal models.Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := workflow.Decide(CurrentPrincipal(c), portal)
		if decision.Allow {
			c.Next()
			return
		}

		status := http.StatusForbidden
		if decision.RedirectTo == models.PortalAuth {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{
			"ok":          false,
			"error":       workflow.KindAuthorization.String(),
			"detail":      "You cannot access the " + string(portal) + " portal",
			"redirect_to": decision.RedirectTo,
		})
		c.Abort()
	}
}

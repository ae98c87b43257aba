package health

import (
	"net/http"

	"github.com/northlane/billingctl/core/logger"
	"github.com/gin-gonic/gin"
)

// Routes registers the health check route for the application.
func Routes(route *gin.RouterGroup, logger logger.Logger) {
	route.GET("/health_check", func(c *gin.Context) {
		logger.Debug(c.Request.Context(), "health check accessed")
		c.String(http.StatusOK, "This Service is Healthy")
	})
}

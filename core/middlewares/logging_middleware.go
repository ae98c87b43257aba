package middlewares

import (
	"time"

	"github.com/northlane/billingctl/core/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewRequestLoggingMiddleware assigns each request an X-Request-ID and, in development only,
// debug-logs the request and response (including bodies) with the latency. Outside development
// logger.FormatRequestAndResponse returns "" and nothing is logged.
func NewRequestLoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)

		requestBody := logger.HandleRequestBody(c.Request)
		writer := logger.HandleResponseBody(c.Writer)
		c.Writer = writer

		start := time.Now()
		c.Next()

		msg := logger.FormatRequestAndResponse(c.Writer, c.Request, writer.Body.String(), requestID, requestBody)
		if msg != "" {
			log.Debug(c.Request.Context(), msg, map[string]interface{}{
				"latency_ms": time.Since(start).Milliseconds(),
			})
		}
	}
}

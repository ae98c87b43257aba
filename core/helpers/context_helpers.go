package helpers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GetUserID extracts user_id from the Gin context. Returns empty string if not found.
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr
		}
	}
	return ""
}

// GetUserRole extracts the caller's role from the Gin context.
func GetUserRole(c *gin.Context) string {
	if role, exists := c.Get("user_role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr
		}
	}
	return ""
}

// IsAdmin checks if the authenticated caller has the ADMIN role.
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == "ADMIN"
}

// GetCurrentTimeString returns current time as an ISO 8601 string.
func GetCurrentTimeString() string {
	return time.Now().Format(time.RFC3339)
}

package webhooks

import (
	"github.com/northlane/billingctl/features/webhooks/domain/usecases"
	"github.com/gin-gonic/gin"
)

// Routes registers the inbound gateway webhook endpoint. No auth middleware: the HMAC
// signature check inside the handler is the authentication mechanism.
func Routes(route *gin.RouterGroup, handler *usecases.WebhookHandler) {
	route.POST("/webhooks/payment", handler.Handle)
}

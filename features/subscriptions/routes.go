package subscriptions

import (
	"github.com/northlane/billingctl/features/subscriptions/domain/usecases"
	"github.com/gin-gonic/gin"
)

// Routes registers the subscription lifecycle routes. Every route requires authentication;
// ownership checks happen inside the manager.
func Routes(
	route *gin.RouterGroup,
	handler *usecases.SubscriptionHandler,
	authRequired gin.HandlerFunc,
) {
	subscriptions := route.Group("/subscriptions", authRequired)
	{
		subscriptions.POST("", handler.Create)
		subscriptions.GET("", handler.List)
		subscriptions.GET("/:id", handler.Get)
		subscriptions.POST("/:id/cancel", handler.Cancel)
		subscriptions.POST("/:id/renew", handler.Renew)
		subscriptions.POST("/:id/toggle_auto_renewal", handler.ToggleAutoRenewal)
		subscriptions.POST("/:id/pay", handler.Pay)
	}
}

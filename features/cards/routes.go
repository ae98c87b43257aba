package cards

import (
	"github.com/northlane/billingctl/features/cards/domain/usecases"
	"github.com/gin-gonic/gin"
)

// Routes registers the card-binding routes. Every route requires authentication; ownership
// checks happen inside the service.
func Routes(
	route *gin.RouterGroup,
	handler *usecases.CardHandler,
	authRequired gin.HandlerFunc,
) {
	cards := route.Group("/cards", authRequired)
	{
		cards.POST("/checkout-session", handler.CreateCheckoutSession)
		cards.GET("", handler.List)
		cards.POST("/set-default", handler.SetDefault)
		cards.DELETE("/:id", handler.Delete)
	}
}

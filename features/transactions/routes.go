package transactions

import (
	"github.com/northlane/billingctl/features/transactions/domain/usecases"
	"github.com/gin-gonic/gin"
)

// Routes registers the transaction read routes. Every route requires authentication; ownership
// filtering happens inside the handler.
func Routes(
	route *gin.RouterGroup,
	handler *usecases.TransactionHandler,
	protectFactory func(handler gin.HandlerFunc, role string) gin.HandlerFunc,
	authRequired gin.HandlerFunc,
) {
	transactions := route.Group("/transactions", authRequired)
	{
		transactions.GET("", handler.List)
		transactions.GET("/:id", handler.Get)
	}
}

package plans

import (
	"github.com/northlane/billingctl/core/roles"
	"github.com/northlane/billingctl/features/plans/domain/usecases"
	"github.com/gin-gonic/gin"
)

// Routes registers the plan catalog routes.
func Routes(
	route *gin.RouterGroup,
	handler *usecases.PlanHandler,
	protectFactory func(handler gin.HandlerFunc, role string) gin.HandlerFunc,
	optionalAuth gin.HandlerFunc,
) {
	plans := route.Group("/plans", optionalAuth)
	{
		plans.GET("", handler.List)
		plans.GET("/:id", handler.Get)
		plans.POST("", protectFactory(handler.Create, roles.Admin))
		plans.PATCH("/:id", protectFactory(handler.Update, roles.Admin))
	}
}

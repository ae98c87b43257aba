// Package routes assembles the HTTP route table from each feature's own Routes function.
package routes

import (
	"github.com/northlane/billingctl/core/health"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/features/cards"
	cardUsecases "github.com/northlane/billingctl/features/cards/domain/usecases"
	"github.com/northlane/billingctl/features/plans"
	planUsecases "github.com/northlane/billingctl/features/plans/domain/usecases"
	"github.com/northlane/billingctl/features/subscriptions"
	subUsecases "github.com/northlane/billingctl/features/subscriptions/domain/usecases"
	"github.com/northlane/billingctl/features/transactions"
	txUsecases "github.com/northlane/billingctl/features/transactions/domain/usecases"
	"github.com/northlane/billingctl/features/webhooks"
	webhookUsecases "github.com/northlane/billingctl/features/webhooks/domain/usecases"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitializeRoutes sets up all application routes under /v1 (including /v1/health_check),
// plus the unversioned /metrics endpoint.
func InitializeRoutes(
	router *gin.Engine,
	planHandler *planUsecases.PlanHandler,
	subscriptionHandler *subUsecases.SubscriptionHandler,
	cardHandler *cardUsecases.CardHandler,
	transactionHandler *txUsecases.TransactionHandler,
	webhookHandler *webhookUsecases.WebhookHandler,
	protectFactory func(handler gin.HandlerFunc, role string) gin.HandlerFunc,
	authRequired gin.HandlerFunc,
	optionalAuth gin.HandlerFunc,
	logger logger.Logger,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := router.Group("/v1")

	health.Routes(root, logger)
	plans.Routes(root, planHandler, protectFactory, optionalAuth)
	subscriptions.Routes(root, subscriptionHandler, authRequired)
	cards.Routes(root, cardHandler, authRequired)
	transactions.Routes(root, transactionHandler, protectFactory, authRequired)
	webhooks.Routes(root, webhookHandler)
}

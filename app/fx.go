package app

import (
	"context"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/middlewares"
	"github.com/northlane/billingctl/core/services"
	cardsDi "github.com/northlane/billingctl/features/cards/di"
	"github.com/northlane/billingctl/features/events"
	paymentsDi "github.com/northlane/billingctl/features/payments/di"
	plansDi "github.com/northlane/billingctl/features/plans/di"
	subscriptionsDi "github.com/northlane/billingctl/features/subscriptions/di"
	transactionsDi "github.com/northlane/billingctl/features/transactions/di"
	webhookDi "github.com/northlane/billingctl/features/webhooks/di"
	"github.com/northlane/billingctl/internal/gateway"
	"github.com/northlane/billingctl/internal/queue"
	"github.com/northlane/billingctl/internal/sweeper"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// NewFxApp builds the application's Fx graph: ambient infrastructure modules, one module per
// feature package, the queue-worker framework and expiry sweeper, and finally the lifecycle
// hooks that wire routes and start the process.
func NewFxApp() *fx.App {
	return fx.New(
		logger.Module,
		config.Module,
		services.Module,
		middlewares.Module,
		gateway.Module,
		events.Module,
		plansDi.Module,
		subscriptionsDi.Module,
		cardsDi.Module,
		transactionsDi.Module,
		paymentsDi.Module,
		webhookDi.Module,
		fx.Provide(gin.New),
		fx.Invoke(
			func(lc fx.Lifecycle, router *gin.Engine, params RouteParams, redisService *services.RedisService, logger logger.Logger) {
				if appErr := redisService.Init(); appErr != nil {
					logger.Error(context.Background(), "failed to initialize Redis", map[string]interface{}{
						"error": appErr.Message,
					})
				}

				SetupMiddlewaresAndRoutes(lc, router, params, logger)
			},
		),
		InitAndRun(),
		// Registered after InitAndRun so their OnStart hooks run once the broker connection
		// and topology from InitAndRun's hook are in place.
		queue.Module,
		sweeper.Module,
	)
}

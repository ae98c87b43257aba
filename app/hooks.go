package app

import (
	"context"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/middlewares"
	cardUsecases "github.com/northlane/billingctl/features/cards/domain/usecases"
	planUsecases "github.com/northlane/billingctl/features/plans/domain/usecases"
	subUsecases "github.com/northlane/billingctl/features/subscriptions/domain/usecases"
	txUsecases "github.com/northlane/billingctl/features/transactions/domain/usecases"
	webhookUsecases "github.com/northlane/billingctl/features/webhooks/domain/usecases"
	"github.com/northlane/billingctl/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// RouteParams collects everything SetupMiddlewaresAndRoutes needs from the Fx graph. The two
// gin.HandlerFunc fields are disambiguated by name, since both NewRequireAuthMiddleware and
// NewOptionalAuthMiddleware produce the same concrete type.
type RouteParams struct {
	fx.In

	PlanHandler         *planUsecases.PlanHandler
	SubscriptionHandler *subUsecases.SubscriptionHandler
	CardHandler         *cardUsecases.CardHandler
	TransactionHandler  *txUsecases.TransactionHandler
	WebhookHandler      *webhookUsecases.WebhookHandler
	ProtectFactory      func(handler gin.HandlerFunc, role string) gin.HandlerFunc
	AuthRequired        gin.HandlerFunc `name:"authRequired"`
	OptionalAuth        gin.HandlerFunc `name:"optionalAuth"`
	RequestLogging      gin.HandlerFunc
}

// SetupMiddlewaresAndRoutes configures middlewares BEFORE routes (critical for Gin), then
// registers every feature's route table and the shutdown hook.
func SetupMiddlewaresAndRoutes(lifecycle fx.Lifecycle, router *gin.Engine, params RouteParams, logger logger.Logger) {
	if err := router.SetTrustedProxies([]string{}); err != nil {
		appError := errors.RootError(err.Error(), nil)
		logger.LogError(context.Background(), "failed to configure trusted proxies", appError)
		panic(err)
	}

	router.MaxMultipartMemory = 32 << 20 // 32MB

	router.Use(middlewares.Cors())
	router.Use(params.RequestLogging)
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.ErrorLogger())

	routes.InitializeRoutes(
		router,
		params.PlanHandler,
		params.SubscriptionHandler,
		params.CardHandler,
		params.TransactionHandler,
		params.WebhookHandler,
		params.ProtectFactory,
		params.AuthRequired,
		params.OptionalAuth,
		logger,
	)
	logger.Info(context.Background(), "routes initialized after middleware setup")

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info(ctx, "application started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info(ctx, "stopping server")
			return nil
		},
	})
}

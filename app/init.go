package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/northlane/billingctl/core/config"
	appErrors "github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/services"
	cardModels "github.com/northlane/billingctl/features/cards/data/models"
	"github.com/northlane/billingctl/features/events"
	planModels "github.com/northlane/billingctl/features/plans/data/models"
	subscriptionModels "github.com/northlane/billingctl/features/subscriptions/data/models"
	transactionModels "github.com/northlane/billingctl/features/transactions/data/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// InitAndRun initializes and runs the application using the Fx lifecycle: verify the database
// is reachable, run schema migrations, connect to the broker and declare its topology, then
// start serving HTTP. Everything is torn down on shutdown.
func InitAndRun() fx.Option {
	return fx.Invoke(func(lc fx.Lifecycle, cfg *config.AppConfig, amqpService *services.AmqpService, router *gin.Engine, log logger.Logger, db *gorm.DB) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					log.Error(ctx, "failed to get database instance", map[string]interface{}{
						"error": err.Error(),
					})
					return fmt.Errorf("failed to get database instance: %w", err)
				}
				if err := sqlDB.Ping(); err != nil {
					log.Error(ctx, "database ping failed", map[string]interface{}{
						"error": err.Error(),
					})
					return fmt.Errorf("database not accessible: %w", err)
				}
				log.Info(ctx, "database connection verified")

				log.Info(ctx, "running migrations")

				if err := services.RunMigrations(log,
					&planModels.PlanModel{},
					&subscriptionModels.SubscriptionModel{},
					&transactionModels.TransactionModel{},
					&cardModels.CardModel{},
				); err != nil {
					return fmt.Errorf("migrations failed: %w", err)
				}

				log.Info(ctx, "migrations done")

				if appErr := amqpService.Connect(); appErr != nil {
					return fmt.Errorf("broker connection failed: %s", appErr.Message)
				}
				if appErr := amqpService.DeclareTopology(map[string]string{
					events.AuthEventsQueue:         events.AuthEventsQueue,
					events.NotificationEventsQueue: events.NotificationEventsQueue,
				}); appErr != nil {
					return fmt.Errorf("broker topology declaration failed: %s", appErr.Message)
				}

				log.Info(ctx, "broker connected and topology declared")

				runPort := fmt.Sprintf(":%s", cfg.Port)
				go func() {
					err := router.Run(runPort)
					if err != nil && !errors.Is(err, http.ErrServerClosed) {
						appError := appErrors.RootError(err.Error(), nil)
						log.LogError(ctx, "failed to start HTTP server", appError)
						panic(err)
					}
				}()

				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info(ctx, "shutting down gracefully")
				amqpService.Close()
				return nil
			},
		})
	})
}

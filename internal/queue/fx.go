package queue

import (
	"context"

	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/services"
	"go.uber.org/fx"
)

// Module provides the fx module for the queue-worker framework: it constructs the two workers
// and registers an fx.Lifecycle hook that starts one Consumer goroutine per worker on app start
// and cancels them on shutdown.
var Module = fx.Module("queue",
	fx.Provide(NewAuthWorker, NewNotificationWorker),
	fx.Invoke(registerConsumers),
)

func registerConsumers(lc fx.Lifecycle, amqpService *services.AmqpService, log logger.Logger, authWorker *AuthWorker, notificationWorker *NotificationWorker) {
	consumers := []*Consumer{
		NewConsumer(authWorker, amqpService, log),
		NewConsumer(notificationWorker, amqpService, log),
	}

	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			for _, consumer := range consumers {
				c := consumer
				go func() {
					if err := c.Run(runCtx); err != nil {
						log.LogError(runCtx, "queue consumer stopped", err)
					}
				}()
			}
			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}

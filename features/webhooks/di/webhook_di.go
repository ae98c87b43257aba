package di

import (
	"github.com/northlane/billingctl/features/webhooks/domain/usecases"
	"go.uber.org/fx"
)

// Module provides the fx module for the webhooks feature.
var Module = fx.Module("webhooks",
	fx.Provide(usecases.NewWebhookHandler),
)

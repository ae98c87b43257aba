package di

import (
	"github.com/northlane/billingctl/features/payments/domain/usecases"
	"go.uber.org/fx"
)

// Module provides the fx module for the payments feature.
var Module = fx.Module("payments",
	fx.Provide(
		usecases.NewPaymentService,
	),
)

package gateway

import (
	"go.uber.org/fx"
)

// Module provides the fx module for the PaymentProcessor port, bound to the Stripe-shaped
// adapter.
var Module = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewStripeProcessor,
			fx.As(new(PaymentProcessor)),
		),
	),
)

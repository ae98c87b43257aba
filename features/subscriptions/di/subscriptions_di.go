package di

import (
	"github.com/northlane/billingctl/features/events"
	"github.com/northlane/billingctl/features/subscriptions/data/repositories"
	domainRepositories "github.com/northlane/billingctl/features/subscriptions/domain/repositories"
	"github.com/northlane/billingctl/features/subscriptions/domain/usecases"
	"go.uber.org/fx"
)

// Module provides the fx module for the subscriptions feature.
var Module = fx.Module("subscriptions",
	fx.Provide(
		fx.Annotate(
			repositories.NewSubscriptionRepository,
			fx.As(new(domainRepositories.SubscriptionRepository)),
		),
		func(p *events.Publisher) usecases.EventPublisher {
			return p
		},
		usecases.NewSubscriptionService,
		usecases.NewSubscriptionManager,
		usecases.NewSubscriptionHandler,
	),
)

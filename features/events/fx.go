package events

import (
	"go.uber.org/fx"
)

// Module provides the fx module for the events feature.
var Module = fx.Module("events", fx.Provide(NewPublisher))

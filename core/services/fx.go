package services

import (
	"github.com/northlane/billingctl/core/logger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides the fx module for core services.
var Module = fx.Module("services",
	fx.Provide(
		NewAmqpService,
		NewRedisService,
		func(log logger.Logger) *gorm.DB {
			if Connector == nil {
				_ = OpenConnection(log)
			}
			return Connector
		},
	),
)

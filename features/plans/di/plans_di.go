package di

import (
	"github.com/northlane/billingctl/features/plans/data/repositories"
	domainRepositories "github.com/northlane/billingctl/features/plans/domain/repositories"
	"github.com/northlane/billingctl/features/plans/domain/usecases"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides the fx module for the plans feature.
var Module = fx.Module("plans",
	fx.Provide(
		fx.Annotate(
			func(db *gorm.DB) domainRepositories.PlanRepository {
				return repositories.NewPlanRepository(db)
			},
			fx.As(new(domainRepositories.PlanRepository)),
		),
		usecases.NewPlanService,
		usecases.NewPlanHandler,
	),
)

package di

import (
	"github.com/northlane/billingctl/features/cards/data/repositories"
	domainRepositories "github.com/northlane/billingctl/features/cards/domain/repositories"
	"github.com/northlane/billingctl/features/cards/domain/usecases"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides the fx module for the cards feature.
var Module = fx.Module("cards",
	fx.Provide(
		fx.Annotate(
			func(db *gorm.DB) domainRepositories.CardRepository {
				return repositories.NewCardRepository(db)
			},
			fx.As(new(domainRepositories.CardRepository)),
		),
		usecases.NewCardService,
		usecases.NewCardHandler,
	),
)

package di

import (
	"github.com/northlane/billingctl/features/transactions/data/repositories"
	domainRepositories "github.com/northlane/billingctl/features/transactions/domain/repositories"
	"github.com/northlane/billingctl/features/transactions/domain/usecases"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides the fx module for the transactions feature.
var Module = fx.Module("transactions",
	fx.Provide(
		fx.Annotate(
			func(db *gorm.DB) domainRepositories.TransactionRepository {
				return repositories.NewTransactionRepository(db)
			},
			fx.As(new(domainRepositories.TransactionRepository)),
		),
		usecases.NewTransactionService,
		usecases.NewTransactionHandler,
	),
)

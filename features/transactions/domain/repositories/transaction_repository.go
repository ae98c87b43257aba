package repositories

import (
	"context"

	"github.com/northlane/billingctl/features/transactions/domain/entities"
	"github.com/google/uuid"
)

// TransactionRepository persists transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	GetByIntentID(ctx context.Context, intentID string) (*entities.Transaction, error)
	GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.Transaction, error)
	Update(ctx context.Context, tx *entities.Transaction) error
}

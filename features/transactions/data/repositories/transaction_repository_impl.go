package repositories

import (
	"context"
	"errors"

	"github.com/northlane/billingctl/features/transactions/data/models"
	"github.com/northlane/billingctl/features/transactions/domain/entities"
	"github.com/northlane/billingctl/features/transactions/domain/repositories"
	"github.com/northlane/billingctl/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepositoryImpl struct {
	generic *repository.Generic[models.TransactionModel]
}

// NewTransactionRepository creates a TransactionRepository backed by the generic GORM repository.
func NewTransactionRepository(db *gorm.DB) repositories.TransactionRepository {
	return &transactionRepositoryImpl{generic: repository.New[models.TransactionModel](db)}
}

func (r *transactionRepositoryImpl) Create(ctx context.Context, tx *entities.Transaction) error {
	model := &models.TransactionModel{}
	model.FromEntity(tx)
	if err := r.generic.Create(ctx, model); err != nil {
		return err
	}
	*tx = *model.ToEntity()
	return nil
}

func (r *transactionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	model, err := r.generic.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *transactionRepositoryImpl) GetByIntentID(ctx context.Context, intentID string) (*entities.Transaction, error) {
	model, err := r.generic.FindOne(ctx, "gateway_intent_id = ?", intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *transactionRepositoryImpl) GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.Transaction, error) {
	query := make(map[string]interface{})
	if filters.UserID != nil {
		query["user_id"] = *filters.UserID
	}
	if filters.SubscriptionID != nil {
		query["subscription_id"] = *filters.SubscriptionID
	}
	if filters.Status != nil {
		query["status"] = string(*filters.Status)
	}

	rows, err := r.generic.GetMany(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]entities.Transaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToEntity()
	}
	return out, nil
}

func (r *transactionRepositoryImpl) Update(ctx context.Context, tx *entities.Transaction) error {
	model := &models.TransactionModel{}
	model.FromEntity(tx)
	if err := r.generic.Update(ctx, model); err != nil {
		return err
	}
	*tx = *model.ToEntity()
	return nil
}

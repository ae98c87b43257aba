package repositories

import (
	"context"
	"errors"

	"github.com/northlane/billingctl/features/cards/data/models"
	"github.com/northlane/billingctl/features/cards/domain/entities"
	"github.com/northlane/billingctl/features/cards/domain/repositories"
	"github.com/northlane/billingctl/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cardRepositoryImpl struct {
	generic *repository.Generic[models.CardModel]
}

// NewCardRepository creates a CardRepository backed by the generic GORM repository.
func NewCardRepository(db *gorm.DB) repositories.CardRepository {
	return &cardRepositoryImpl{generic: repository.New[models.CardModel](db)}
}

func (r *cardRepositoryImpl) Create(ctx context.Context, card *entities.UserCard) error {
	model := &models.CardModel{}
	model.FromEntity(card)
	if err := r.generic.Create(ctx, model); err != nil {
		return err
	}
	*card = *model.ToEntity()
	return nil
}

func (r *cardRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.UserCard, error) {
	model, err := r.generic.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *cardRepositoryImpl) GetAnyByUser(ctx context.Context, userID uuid.UUID) (*entities.UserCard, error) {
	model, err := r.generic.FindOne(ctx, "user_id = ?", userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *cardRepositoryImpl) GetLatestInitByCustomer(ctx context.Context, gatewayCustomerID string) (*entities.UserCard, error) {
	rows, err := r.generic.FindAll(ctx, "gateway_customer_id = ? AND status = ?", gatewayCustomerID, string(entities.StatusInit))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[0]
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt.After(latest.CreatedAt) {
			latest = rows[i]
		}
	}
	return latest.ToEntity(), nil
}

func (r *cardRepositoryImpl) GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*entities.UserCard, error) {
	model, err := r.generic.FindOne(ctx, "user_id = ? AND status = ? AND is_default = ?", userID, string(entities.StatusSuccess), true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *cardRepositoryImpl) ListSuccessByUser(ctx context.Context, userID uuid.UUID) ([]entities.UserCard, error) {
	rows, err := r.generic.FindAll(ctx, "user_id = ? AND status = ?", userID, string(entities.StatusSuccess))
	if err != nil {
		return nil, err
	}
	out := make([]entities.UserCard, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToEntity()
	}
	return out, nil
}

func (r *cardRepositoryImpl) GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.UserCard, error) {
	query := make(map[string]interface{})
	if filters.UserID != nil {
		query["user_id"] = *filters.UserID
	}
	if filters.Status != nil {
		query["status"] = string(*filters.Status)
	}

	rows, err := r.generic.GetMany(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]entities.UserCard, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToEntity()
	}
	return out, nil
}

func (r *cardRepositoryImpl) Update(ctx context.Context, card *entities.UserCard) error {
	model := &models.CardModel{}
	model.FromEntity(card)
	if err := r.generic.Update(ctx, model); err != nil {
		return err
	}
	*card = *model.ToEntity()
	return nil
}

func (r *cardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.generic.Delete(ctx, id)
}

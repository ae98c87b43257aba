package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/northlane/billingctl/features/subscriptions/data/models"
	"github.com/northlane/billingctl/features/subscriptions/domain/entities"
	"github.com/northlane/billingctl/features/subscriptions/domain/repositories"
	"github.com/northlane/billingctl/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subscriptionRepositoryImpl struct {
	db      *gorm.DB
	generic *repository.Generic[models.SubscriptionModel]
}

// NewSubscriptionRepository creates a SubscriptionRepository backed by GORM.
func NewSubscriptionRepository(db *gorm.DB) repositories.SubscriptionRepository {
	return &subscriptionRepositoryImpl{db: db, generic: repository.New[models.SubscriptionModel](db)}
}

// activeOrPendingStatuses are the statuses that count against the one-subscription-per-user
// invariant.
var activeOrPendingStatuses = []string{string(entities.StatusPending), string(entities.StatusActive)}

// ErrActiveSubscriptionExists is returned by Create when the user already has a
// pending-or-active subscription, whether caught by the pre-check or by the partial unique
// index racing a concurrent insert.
var ErrActiveSubscriptionExists = errors.New("user already has an active or pending subscription")

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "23505")
}

func (r *subscriptionRepositoryImpl) Create(ctx context.Context, sub *entities.Subscription) error {
	model := &models.SubscriptionModel{}
	model.FromEntity(sub)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SubscriptionModel
		err := tx.Where("user_id = ? AND status IN ?", sub.UserID, activeOrPendingStatuses).
			First(&existing).Error
		if err == nil {
			return ErrActiveSubscriptionExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrActiveSubscriptionExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	*sub = *model.ToEntity()
	return nil
}

func (r *subscriptionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error) {
	model, err := r.generic.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *subscriptionRepositoryImpl) GetActiveOrPendingByUser(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	model, err := r.generic.FindOne(ctx, "user_id = ? AND status IN ?", userID, activeOrPendingStatuses)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *subscriptionRepositoryImpl) GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.Subscription, error) {
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
	out := make([]entities.Subscription, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToEntity()
	}
	return out, nil
}

func (r *subscriptionRepositoryImpl) GetExpiredActive(ctx context.Context, asOf time.Time) ([]entities.Subscription, error) {
	rows, err := r.generic.FindAll(ctx, "status = ? AND end_date <= ?", string(entities.StatusActive), asOf)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Subscription, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToEntity()
	}
	return out, nil
}

func (r *subscriptionRepositoryImpl) Update(ctx context.Context, sub *entities.Subscription) error {
	model := &models.SubscriptionModel{}
	model.FromEntity(sub)
	if err := r.generic.Update(ctx, model); err != nil {
		return err
	}
	*sub = *model.ToEntity()
	return nil
}

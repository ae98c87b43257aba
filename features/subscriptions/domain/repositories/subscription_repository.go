package repositories

import (
	"context"
	"time"

	"github.com/northlane/billingctl/features/subscriptions/domain/entities"
	"github.com/google/uuid"
)

// SubscriptionRepository persists subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entities.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error)
	GetActiveOrPendingByUser(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
	GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.Subscription, error)
	GetExpiredActive(ctx context.Context, asOf time.Time) ([]entities.Subscription, error)
	Update(ctx context.Context, sub *entities.Subscription) error
}

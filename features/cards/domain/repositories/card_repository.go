package repositories

import (
	"context"

	"github.com/northlane/billingctl/features/cards/domain/entities"
	"github.com/google/uuid"
)

// CardRepository persists user cards.
type CardRepository interface {
	Create(ctx context.Context, card *entities.UserCard) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.UserCard, error)
	// GetAnyByUser returns one card belonging to userID regardless of status, used to discover
	// an existing gateway_customer_id to reuse on a second card bind.
	GetAnyByUser(ctx context.Context, userID uuid.UUID) (*entities.UserCard, error)
	// GetLatestInitByCustomer returns the most recently created INIT-status card for a gateway
	// customer id, the row every card webhook correlates against.
	GetLatestInitByCustomer(ctx context.Context, gatewayCustomerID string) (*entities.UserCard, error)
	// GetDefaultByUser returns the user's current SUCCESS+is_default card, if any.
	GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*entities.UserCard, error)
	// ListSuccessByUser returns every SUCCESS card owned by the user.
	ListSuccessByUser(ctx context.Context, userID uuid.UUID) ([]entities.UserCard, error)
	// GetMany returns cards matching filters regardless of owner, for the admin listing.
	GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.UserCard, error)
	Update(ctx context.Context, card *entities.UserCard) error
	Delete(ctx context.Context, id uuid.UUID) error
}

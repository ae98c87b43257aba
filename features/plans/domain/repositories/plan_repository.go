package repositories

import (
	"context"

	"github.com/northlane/billingctl/features/plans/domain/entities"
	"github.com/google/uuid"
)

// PlanRepository persists subscription plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *entities.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
	GetByTitle(ctx context.Context, title string) (*entities.Plan, error)
	GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.Plan, error)
	Update(ctx context.Context, plan *entities.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

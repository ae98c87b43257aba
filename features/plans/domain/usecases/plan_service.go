// Package usecases implements SubscriptionPlanService: CRUD for plans with title-uniqueness
// and an archival flag standing in for deletion.
package usecases

import (
	"context"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/features/plans/domain/entities"
	"github.com/northlane/billingctl/features/plans/domain/repositories"
	"github.com/google/uuid"
)

// PlanService implements the CRUD and title-uniqueness rules for subscription plans.
type PlanService struct {
	repo   repositories.PlanRepository
	logger logger.Logger
}

// NewPlanService creates a PlanService.
func NewPlanService(repo repositories.PlanRepository, logger logger.Logger) *PlanService {
	return &PlanService{repo: repo, logger: logger}
}

// Create writes a new plan, failing AlreadyExists if its title is already taken.
func (s *PlanService) Create(ctx context.Context, req entities.CreateRequest) (*entities.Plan, error) {
	existing, err := s.repo.GetByTitle(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.AlreadyExistsError("a plan with this title already exists")
	}

	plan := &entities.Plan{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		DurationDays: req.DurationDays,
		IsArchive:    false,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update applies a partial update, failing AlreadyExists if a new title collides with
// another plan and NotFound if id doesn't exist.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req entities.UpdateRequest) (*entities.Plan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NotFound("plan not found")
	}

	if req.Title != nil && *req.Title != plan.Title {
		other, err := s.repo.GetByTitle(ctx, *req.Title)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, errors.AlreadyExistsError("a plan with this title already exists")
		}
		plan.Title = *req.Title
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.PriceCents != nil {
		plan.PriceCents = *req.PriceCents
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.IsArchive != nil {
		plan.IsArchive = *req.IsArchive
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// List returns plans matching filters; admins pass an empty ListFilters to see archived plans too.
func (s *PlanService) List(ctx context.Context, filters entities.ListFilters) ([]entities.Plan, error) {
	return s.repo.GetMany(ctx, filters)
}

// Get returns a single plan, NotFound if absent.
func (s *PlanService) Get(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NotFound("plan not found")
	}
	return plan, nil
}

package usecases

import (
	"context"
	"testing"

	"github.com/northlane/billingctl/core/entities"
	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	planEntities "github.com/northlane/billingctl/features/plans/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanRepository struct {
	byID    map[uuid.UUID]*planEntities.Plan
	byTitle map[string]*planEntities.Plan
}

func newFakePlanRepository() *fakePlanRepository {
	return &fakePlanRepository{
		byID:    make(map[uuid.UUID]*planEntities.Plan),
		byTitle: make(map[string]*planEntities.Plan),
	}
}

func (f *fakePlanRepository) Create(_ context.Context, plan *planEntities.Plan) error {
	f.byID[plan.ID] = plan
	f.byTitle[plan.Title] = plan
	return nil
}

func (f *fakePlanRepository) GetByID(_ context.Context, id uuid.UUID) (*planEntities.Plan, error) {
	return f.byID[id], nil
}

func (f *fakePlanRepository) GetByTitle(_ context.Context, title string) (*planEntities.Plan, error) {
	return f.byTitle[title], nil
}

func (f *fakePlanRepository) GetMany(_ context.Context, filters planEntities.ListFilters) ([]planEntities.Plan, error) {
	var out []planEntities.Plan
	for _, p := range f.byID {
		if filters.IsArchive != nil && p.IsArchive != *filters.IsArchive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePlanRepository) Update(_ context.Context, plan *planEntities.Plan) error {
	delete(f.byTitle, f.byID[plan.ID].Title)
	f.byID[plan.ID] = plan
	f.byTitle[plan.Title] = plan
	return nil
}

func (f *fakePlanRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byTitle, f.byID[id].Title)
	delete(f.byID, id)
	return nil
}

func newTestService() (*PlanService, *fakePlanRepository) {
	repo := newFakePlanRepository()
	return NewPlanService(repo, logger.NewLogger()), repo
}

func TestCreatePlanSucceeds(t *testing.T) {
	svc, _ := newTestService()

	plan, err := svc.Create(context.Background(), planEntities.CreateRequest{
		Title:        "Gold",
		Description:  "Gold tier",
		PriceCents:   1000,
		DurationDays: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gold", plan.Title)
	assert.False(t, plan.IsArchive)
}

func TestCreatePlanRejectsDuplicateTitle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, planEntities.CreateRequest{Title: "Gold", Description: "d", PriceCents: 1000, DurationDays: 30})
	require.NoError(t, err)

	_, err = svc.Create(ctx, planEntities.CreateRequest{Title: "Gold", Description: "d2", PriceCents: 2000, DurationDays: 60})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, entities.ErrAlreadyExists, appErr.Type)
}

func TestUpdatePlanRejectsCollidingTitle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	gold, err := svc.Create(ctx, planEntities.CreateRequest{Title: "Gold", Description: "d", PriceCents: 1000, DurationDays: 30})
	require.NoError(t, err)
	silver, err := svc.Create(ctx, planEntities.CreateRequest{Title: "Silver", Description: "d", PriceCents: 500, DurationDays: 30})
	require.NoError(t, err)

	newTitle := gold.Title
	_, err = svc.Update(ctx, silver.ID, planEntities.UpdateRequest{Title: &newTitle})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, entities.ErrAlreadyExists, appErr.Type)
}

func TestGetPlanNotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, entities.ErrNotFound, appErr.Type)
}

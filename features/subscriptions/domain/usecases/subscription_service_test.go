package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/northlane/billingctl/core/entities"
	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	planEntities "github.com/northlane/billingctl/features/plans/domain/entities"
	subRepoImpl "github.com/northlane/billingctl/features/subscriptions/data/repositories"
	subEntities "github.com/northlane/billingctl/features/subscriptions/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanRepo struct {
	byID map[uuid.UUID]*planEntities.Plan
}

func (f *fakePlanRepo) Create(context.Context, *planEntities.Plan) error { return nil }
func (f *fakePlanRepo) GetByID(_ context.Context, id uuid.UUID) (*planEntities.Plan, error) {
	return f.byID[id], nil
}
func (f *fakePlanRepo) GetByTitle(context.Context, string) (*planEntities.Plan, error) { return nil, nil }
func (f *fakePlanRepo) GetMany(context.Context, planEntities.ListFilters) ([]planEntities.Plan, error) {
	return nil, nil
}
func (f *fakePlanRepo) Update(context.Context, *planEntities.Plan) error { return nil }
func (f *fakePlanRepo) Delete(context.Context, uuid.UUID) error         { return nil }

type fakeSubscriptionRepo struct {
	byID         map[uuid.UUID]*subEntities.Subscription
	activeExists bool
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byID: make(map[uuid.UUID]*subEntities.Subscription)}
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub *subEntities.Subscription) error {
	for _, existing := range f.byID {
		if existing.UserID == sub.UserID && (existing.Status == subEntities.StatusPending || existing.Status == subEntities.StatusActive) {
			return subRepoImpl.ErrActiveSubscriptionExists
		}
	}
	f.byID[sub.ID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*subEntities.Subscription, error) {
	return f.byID[id], nil
}

func (f *fakeSubscriptionRepo) GetActiveOrPendingByUser(_ context.Context, userID uuid.UUID) (*subEntities.Subscription, error) {
	for _, sub := range f.byID {
		if sub.UserID == userID && (sub.Status == subEntities.StatusPending || sub.Status == subEntities.StatusActive) {
			return sub, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) GetMany(_ context.Context, filters subEntities.ListFilters) ([]subEntities.Subscription, error) {
	var out []subEntities.Subscription
	for _, sub := range f.byID {
		if filters.UserID != nil && sub.UserID != *filters.UserID {
			continue
		}
		if filters.Status != nil && sub.Status != *filters.Status {
			continue
		}
		out = append(out, *sub)
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) GetExpiredActive(_ context.Context, asOf time.Time) ([]subEntities.Subscription, error) {
	var out []subEntities.Subscription
	for _, sub := range f.byID {
		if sub.Status == subEntities.StatusActive && !sub.EndDate.After(asOf) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) Update(_ context.Context, sub *subEntities.Subscription) error {
	f.byID[sub.ID] = sub
	return nil
}

func newTestSubscriptionService() (*SubscriptionService, *fakeSubscriptionRepo, *fakePlanRepo) {
	plan := &planEntities.Plan{ID: uuid.New(), Title: "Gold", PriceCents: 1000, DurationDays: 30}
	plans := &fakePlanRepo{byID: map[uuid.UUID]*planEntities.Plan{plan.ID: plan}}
	subs := newFakeSubscriptionRepo()
	return NewSubscriptionService(subs, plans, logger.NewLogger()), subs, plans
}

func firstPlanID(plans *fakePlanRepo) uuid.UUID {
	for id := range plans.byID {
		return id
	}
	return uuid.Nil
}

func TestCreateSubscriptionSucceeds(t *testing.T) {
	svc, _, plans := newTestSubscriptionService()
	userID := uuid.New()

	sub, err := svc.Create(context.Background(), userID, subEntities.CreateRequest{PlanID: firstPlanID(plans), AutoRenewal: true})
	require.NoError(t, err)
	assert.Equal(t, subEntities.StatusPending, sub.Status)
	assert.True(t, sub.AutoRenewal)
}

func TestCreateSubscriptionRejectsSecondActiveOrPending(t *testing.T) {
	svc, _, plans := newTestSubscriptionService()
	userID := uuid.New()
	planID := firstPlanID(plans)

	_, err := svc.Create(context.Background(), userID, subEntities.CreateRequest{PlanID: planID})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), userID, subEntities.CreateRequest{PlanID: planID})
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, entities.ErrActiveSubscriptionExists, appErr.Type)
}

func TestCancelSubscriptionRejectsWrongOwner(t *testing.T) {
	svc, _, plans := newTestSubscriptionService()
	ctx := context.Background()
	userID := uuid.New()

	sub, err := svc.Create(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans)})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, uuid.New(), sub.ID)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, entities.ErrAccessDenied, appErr.Type)
}

func TestCancelSubscriptionClearsAutoRenewal(t *testing.T) {
	svc, _, plans := newTestSubscriptionService()
	ctx := context.Background()
	userID := uuid.New()

	sub, err := svc.Create(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans), AutoRenewal: true})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, userID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, subEntities.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.AutoRenewal)
}

func TestChangeStatusRejectsIllegalTransition(t *testing.T) {
	svc, repo, plans := newTestSubscriptionService()
	ctx := context.Background()
	userID := uuid.New()

	sub, err := svc.Create(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans)})
	require.NoError(t, err)
	sub.Status = subEntities.StatusCancelled
	require.NoError(t, repo.Update(ctx, sub))

	_, err = svc.ChangeStatus(ctx, sub.ID, subEntities.StatusActive)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, entities.ErrConflict, appErr.Type)
}

func TestChangeStatusSameStateIsNoop(t *testing.T) {
	svc, _, plans := newTestSubscriptionService()
	ctx := context.Background()
	userID := uuid.New()

	sub, err := svc.Create(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans)})
	require.NoError(t, err)

	same, err := svc.ChangeStatus(ctx, sub.ID, subEntities.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, subEntities.StatusPending, same.Status)
}

func TestListWithoutUserFilterReturnsAllUsers(t *testing.T) {
	svc, _, plans := newTestSubscriptionService()
	ctx := context.Background()
	planID := firstPlanID(plans)

	first, err := svc.Create(ctx, uuid.New(), subEntities.CreateRequest{PlanID: planID})
	require.NoError(t, err)
	second, err := svc.Create(ctx, uuid.New(), subEntities.CreateRequest{PlanID: planID})
	require.NoError(t, err)

	all, err := svc.List(ctx, subEntities.ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ownerOnly, err := svc.List(ctx, subEntities.ListFilters{UserID: &first.UserID})
	require.NoError(t, err)
	require.Len(t, ownerOnly, 1)
	assert.Equal(t, first.ID, ownerOnly[0].ID)
	assert.NotEqual(t, second.UserID, ownerOnly[0].UserID)
}

func TestExpiredActiveReturnsOnlyPastEndDate(t *testing.T) {
	svc, repo, plans := newTestSubscriptionService()
	ctx := context.Background()
	userID := uuid.New()

	sub, err := svc.Create(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans)})
	require.NoError(t, err)
	sub.Status = subEntities.StatusActive
	sub.EndDate = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Update(ctx, sub))

	expired, err := svc.ExpiredActive(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, sub.ID, expired[0].ID)
}

package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/roles"
	cardEntities "github.com/northlane/billingctl/features/cards/domain/entities"
	paymentUsecases "github.com/northlane/billingctl/features/payments/domain/usecases"
	planEntities "github.com/northlane/billingctl/features/plans/domain/entities"
	subEntities "github.com/northlane/billingctl/features/subscriptions/domain/entities"
	txEntities "github.com/northlane/billingctl/features/transactions/domain/entities"
	txUsecases "github.com/northlane/billingctl/features/transactions/domain/usecases"
	"github.com/northlane/billingctl/internal/gateway"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishRecorder struct {
	roleChanges   []string
	notifications []interface{}
}

func (r *publishRecorder) PublishAuthRoleChange(_ context.Context, _ uuid.UUID, role string) bool {
	r.roleChanges = append(r.roleChanges, role)
	return true
}

func (r *publishRecorder) PublishUserNotification(_ context.Context, _ uuid.UUID, data interface{}) bool {
	r.notifications = append(r.notifications, data)
	return true
}

type mgrCardRepo struct {
	byID map[uuid.UUID]*cardEntities.UserCard
}

func (f *mgrCardRepo) Create(_ context.Context, card *cardEntities.UserCard) error {
	f.byID[card.ID] = card
	return nil
}

func (f *mgrCardRepo) GetByID(_ context.Context, id uuid.UUID) (*cardEntities.UserCard, error) {
	return f.byID[id], nil
}

func (f *mgrCardRepo) GetAnyByUser(_ context.Context, userID uuid.UUID) (*cardEntities.UserCard, error) {
	for _, c := range f.byID {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *mgrCardRepo) GetLatestInitByCustomer(context.Context, string) (*cardEntities.UserCard, error) {
	return nil, nil
}

func (f *mgrCardRepo) GetDefaultByUser(_ context.Context, userID uuid.UUID) (*cardEntities.UserCard, error) {
	for _, c := range f.byID {
		if c.UserID == userID && c.Status == cardEntities.StatusSuccess && c.IsDefault {
			return c, nil
		}
	}
	return nil, nil
}

func (f *mgrCardRepo) ListSuccessByUser(context.Context, uuid.UUID) ([]cardEntities.UserCard, error) {
	return nil, nil
}

func (f *mgrCardRepo) GetMany(context.Context, cardEntities.ListFilters) ([]cardEntities.UserCard, error) {
	return nil, nil
}

func (f *mgrCardRepo) Update(_ context.Context, card *cardEntities.UserCard) error {
	f.byID[card.ID] = card
	return nil
}

func (f *mgrCardRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type mgrTxRepo struct {
	byID       map[uuid.UUID]*txEntities.Transaction
	byIntentID map[string]*txEntities.Transaction
}

func newMgrTxRepo() *mgrTxRepo {
	return &mgrTxRepo{
		byID:       make(map[uuid.UUID]*txEntities.Transaction),
		byIntentID: make(map[string]*txEntities.Transaction),
	}
}

func (f *mgrTxRepo) Create(_ context.Context, tx *txEntities.Transaction) error {
	f.byID[tx.ID] = tx
	return nil
}

func (f *mgrTxRepo) GetByID(_ context.Context, id uuid.UUID) (*txEntities.Transaction, error) {
	return f.byID[id], nil
}

func (f *mgrTxRepo) GetByIntentID(_ context.Context, intentID string) (*txEntities.Transaction, error) {
	return f.byIntentID[intentID], nil
}

func (f *mgrTxRepo) GetMany(context.Context, txEntities.ListFilters) ([]txEntities.Transaction, error) {
	return nil, nil
}

func (f *mgrTxRepo) Update(_ context.Context, tx *txEntities.Transaction) error {
	f.byID[tx.ID] = tx
	if tx.GatewayIntentID != nil {
		f.byIntentID[*tx.GatewayIntentID] = tx
	}
	return nil
}

type mgrProcessor struct{}

func (mgrProcessor) CreateCustomer(context.Context) (string, error) { return "cus_1", nil }
func (mgrProcessor) CreateCardBindingSession(context.Context, string) (string, error) {
	return "", nil
}
func (mgrProcessor) DetachCard(context.Context, string) error { return nil }
func (mgrProcessor) CreatePaymentIntent(context.Context, gateway.CreatePaymentIntentRequest) (*gateway.PaymentIntent, error) {
	return &gateway.PaymentIntent{IntentID: "pi_1"}, nil
}
func (mgrProcessor) CancelPaymentIntent(context.Context, string) error { return nil }

func newTestManager() (*SubscriptionManager, *fakeSubscriptionRepo, *fakePlanRepo, *mgrCardRepo, *publishRecorder) {
	plan := &planEntities.Plan{ID: uuid.New(), Title: "Gold", PriceCents: 1000, DurationDays: 30}
	plans := &fakePlanRepo{byID: map[uuid.UUID]*planEntities.Plan{plan.ID: plan}}
	subs := newFakeSubscriptionRepo()
	log := logger.NewLogger()

	cards := &mgrCardRepo{byID: make(map[uuid.UUID]*cardEntities.UserCard)}
	txService := txUsecases.NewTransactionService(newMgrTxRepo(), log)
	payments := paymentUsecases.NewPaymentService(cards, txService, mgrProcessor{}, log)
	recorder := &publishRecorder{}

	subService := NewSubscriptionService(subs, plans, log)
	manager := NewSubscriptionManager(subService, payments, cards, plans, recorder, log)
	return manager, subs, plans, cards, recorder
}

func TestActivateSubscriptionPublishesRoleUpgrade(t *testing.T) {
	manager, _, plans, _, recorder := newTestManager()
	ctx := context.Background()
	userID := uuid.New()

	sub, err := manager.CreateSubscription(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans)})
	require.NoError(t, err)

	activated, err := manager.ActivateSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, subEntities.StatusActive, activated.Status)
	assert.Equal(t, []string{roles.Subscriber}, recorder.roleChanges)
}

func TestActivateSubscriptionReplayDoesNotRepublish(t *testing.T) {
	manager, _, plans, _, recorder := newTestManager()
	ctx := context.Background()
	userID := uuid.New()

	sub, err := manager.CreateSubscription(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans)})
	require.NoError(t, err)

	_, err = manager.ActivateSubscription(ctx, sub.ID)
	require.NoError(t, err)
	publishedRoles := len(recorder.roleChanges)
	publishedNotifications := len(recorder.notifications)

	again, err := manager.ActivateSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, subEntities.StatusActive, again.Status)
	assert.Len(t, recorder.roleChanges, publishedRoles)
	assert.Len(t, recorder.notifications, publishedNotifications)
}

func TestHandlePaymentSucceededReplayIsIdempotent(t *testing.T) {
	manager, _, plans, cards, recorder := newTestManager()
	ctx := context.Background()
	userID := uuid.New()

	card := &cardEntities.UserCard{ID: uuid.New(), UserID: userID, GatewayCustomerID: "cus_1", Status: cardEntities.StatusSuccess, IsDefault: true}
	require.NoError(t, cards.Create(ctx, card))

	sub, err := manager.CreateSubscription(ctx, userID, subEntities.CreateRequest{PlanID: firstPlanID(plans)})
	require.NoError(t, err)
	require.NoError(t, manager.InitiateSubscriptionPayment(ctx, userID, card.ID, sub.ID))

	require.NoError(t, manager.HandlePaymentSucceeded(ctx, "pi_1"))
	publishedRoles := len(recorder.roleChanges)

	require.NoError(t, manager.HandlePaymentSucceeded(ctx, "pi_1"))
	assert.Len(t, recorder.roleChanges, publishedRoles)
}

func TestExpireAndMaybeRenewCreatesReplacement(t *testing.T) {
	manager, subs, plans, cards, recorder := newTestManager()
	ctx := context.Background()
	userID := uuid.New()
	planID := firstPlanID(plans)

	card := &cardEntities.UserCard{ID: uuid.New(), UserID: userID, GatewayCustomerID: "cus_1", Status: cardEntities.StatusSuccess, IsDefault: true}
	require.NoError(t, cards.Create(ctx, card))

	expired := &subEntities.Subscription{
		ID:          uuid.New(),
		UserID:      userID,
		PlanID:      planID,
		Status:      subEntities.StatusActive,
		StartDate:   time.Now().UTC().AddDate(0, 0, -31),
		EndDate:     time.Now().UTC().Add(-time.Second),
		AutoRenewal: true,
	}
	require.NoError(t, subs.Update(ctx, expired))

	require.NoError(t, manager.ExpireAndMaybeRenew(ctx, *expired))

	assert.Equal(t, subEntities.StatusExpired, subs.byID[expired.ID].Status)
	assert.False(t, subs.byID[expired.ID].AutoRenewal)
	assert.Empty(t, recorder.roleChanges)

	replacement, err := subs.GetActiveOrPendingByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, replacement)
	assert.Equal(t, subEntities.StatusPending, replacement.Status)
	assert.Equal(t, planID, replacement.PlanID)
	assert.True(t, replacement.AutoRenewal)
}

func TestExpireWithoutRenewalDowngradesRole(t *testing.T) {
	manager, subs, plans, _, recorder := newTestManager()
	ctx := context.Background()
	userID := uuid.New()

	expired := &subEntities.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    firstPlanID(plans),
		Status:    subEntities.StatusActive,
		StartDate: time.Now().UTC().AddDate(0, 0, -31),
		EndDate:   time.Now().UTC().Add(-time.Second),
	}
	require.NoError(t, subs.Update(ctx, expired))

	require.NoError(t, manager.ExpireAndMaybeRenew(ctx, *expired))

	assert.Equal(t, subEntities.StatusExpired, subs.byID[expired.ID].Status)
	assert.Equal(t, []string{roles.BasicUser}, recorder.roleChanges)

	remaining, err := subs.GetActiveOrPendingByUser(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, remaining)
}

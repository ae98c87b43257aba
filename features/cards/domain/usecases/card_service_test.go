package usecases

import (
	"context"
	"testing"
	"time"

	coreentities "github.com/northlane/billingctl/core/entities"
	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/features/cards/domain/entities"
	"github.com/northlane/billingctl/internal/gateway"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime(offsetSeconds int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, offsetSeconds, 0, time.UTC)
}

type fakeCardRepo struct {
	byID map[uuid.UUID]*entities.UserCard
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{byID: make(map[uuid.UUID]*entities.UserCard)}
}

func (f *fakeCardRepo) Create(_ context.Context, card *entities.UserCard) error {
	f.byID[card.ID] = card
	return nil
}

func (f *fakeCardRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.UserCard, error) {
	return f.byID[id], nil
}

func (f *fakeCardRepo) GetAnyByUser(_ context.Context, userID uuid.UUID) (*entities.UserCard, error) {
	for _, c := range f.byID {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCardRepo) GetLatestInitByCustomer(_ context.Context, gatewayCustomerID string) (*entities.UserCard, error) {
	var latest *entities.UserCard
	for _, c := range f.byID {
		if c.GatewayCustomerID == gatewayCustomerID && c.Status == entities.StatusInit {
			latest = c
		}
	}
	return latest, nil
}

func (f *fakeCardRepo) GetDefaultByUser(_ context.Context, userID uuid.UUID) (*entities.UserCard, error) {
	for _, c := range f.byID {
		if c.UserID == userID && c.IsDefault && c.Status == entities.StatusSuccess {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCardRepo) ListSuccessByUser(_ context.Context, userID uuid.UUID) ([]entities.UserCard, error) {
	var out []entities.UserCard
	for _, c := range f.byID {
		if c.UserID == userID && c.Status == entities.StatusSuccess {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCardRepo) GetMany(_ context.Context, filters entities.ListFilters) ([]entities.UserCard, error) {
	var out []entities.UserCard
	for _, c := range f.byID {
		if filters.UserID != nil && c.UserID != *filters.UserID {
			continue
		}
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCardRepo) Update(_ context.Context, card *entities.UserCard) error {
	f.byID[card.ID] = card
	return nil
}

func (f *fakeCardRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type fakeProcessor struct{}

func (fakeProcessor) CreateCustomer(context.Context) (string, error) { return "cus_1", nil }
func (fakeProcessor) CreateCardBindingSession(context.Context, string) (string, error) {
	return "https://gateway.example/session", nil
}
func (fakeProcessor) DetachCard(context.Context, string) error { return nil }
func (fakeProcessor) CreatePaymentIntent(context.Context, gateway.CreatePaymentIntentRequest) (*gateway.PaymentIntent, error) {
	return &gateway.PaymentIntent{IntentID: "pi_1"}, nil
}
func (fakeProcessor) CancelPaymentIntent(context.Context, string) error { return nil }

func newTestCardService() (*CardService, *fakeCardRepo) {
	repo := newFakeCardRepo()
	return NewCardService(repo, fakeProcessor{}, logger.NewLogger()), repo
}

func TestCreateUserCardReusesGatewayCustomerID(t *testing.T) {
	svc, repo := newTestCardService()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.CreateUserCard(ctx, userID)
	require.NoError(t, err)

	_, err = svc.CreateUserCard(ctx, userID)
	require.NoError(t, err)

	var customerIDs = map[string]bool{}
	for _, c := range repo.byID {
		customerIDs[c.GatewayCustomerID] = true
	}
	assert.Len(t, customerIDs, 1)
}

func TestSetupIntentSucceededPromotesNewDefaultCard(t *testing.T) {
	svc, repo := newTestCardService()
	ctx := context.Background()
	userID := uuid.New()

	first := &entities.UserCard{ID: uuid.New(), UserID: userID, GatewayCustomerID: "cus_1", Status: entities.StatusSuccess, IsDefault: true}
	require.NoError(t, repo.Create(ctx, first))

	second := &entities.UserCard{ID: uuid.New(), UserID: userID, GatewayCustomerID: "cus_1", Status: entities.StatusInit}
	require.NoError(t, repo.Create(ctx, second))

	err := svc.HandleWebhook(ctx, entities.EventSetupIntentSucceeded, entities.WebhookPayload{
		GatewayCustomerID:  "cus_1",
		PaymentMethodToken: "pm_1",
	})
	require.NoError(t, err)

	assert.False(t, repo.byID[first.ID].IsDefault)
	assert.True(t, repo.byID[second.ID].IsDefault)
	assert.Equal(t, entities.StatusSuccess, repo.byID[second.ID].Status)
}

func TestSetDefaultRejectsAlreadyDefault(t *testing.T) {
	svc, repo := newTestCardService()
	ctx := context.Background()
	userID := uuid.New()

	card := &entities.UserCard{ID: uuid.New(), UserID: userID, Status: entities.StatusSuccess, IsDefault: true}
	require.NoError(t, repo.Create(ctx, card))

	err := svc.SetDefault(ctx, userID, card.ID)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, coreentities.ErrAlreadyExists, appErr.Type)
}

func TestDeleteDefaultCardPromotesNewestRemaining(t *testing.T) {
	svc, repo := newTestCardService()
	ctx := context.Background()
	userID := uuid.New()

	older := &entities.UserCard{ID: uuid.New(), UserID: userID, Status: entities.StatusSuccess, IsDefault: true, CreatedAt: fixedTime(0)}
	newer := &entities.UserCard{ID: uuid.New(), UserID: userID, Status: entities.StatusSuccess, CreatedAt: fixedTime(1)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	err := svc.DeleteCard(ctx, userID, older.ID)
	require.NoError(t, err)

	_, stillExists := repo.byID[older.ID]
	assert.False(t, stillExists)
	assert.True(t, repo.byID[newer.ID].IsDefault)
}

package usecases

import (
	"context"
	"testing"

	coreentities "github.com/northlane/billingctl/core/entities"
	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	cardEntities "github.com/northlane/billingctl/features/cards/domain/entities"
	txEntities "github.com/northlane/billingctl/features/transactions/domain/entities"
	txRepositories "github.com/northlane/billingctl/features/transactions/domain/repositories"
	txUsecases "github.com/northlane/billingctl/features/transactions/domain/usecases"
	"github.com/northlane/billingctl/internal/gateway"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentCardRepo struct {
	byID map[uuid.UUID]*cardEntities.UserCard
}

func (f *fakePaymentCardRepo) Create(context.Context, *cardEntities.UserCard) error { return nil }
func (f *fakePaymentCardRepo) GetByID(_ context.Context, id uuid.UUID) (*cardEntities.UserCard, error) {
	return f.byID[id], nil
}
func (f *fakePaymentCardRepo) GetAnyByUser(context.Context, uuid.UUID) (*cardEntities.UserCard, error) {
	return nil, nil
}
func (f *fakePaymentCardRepo) GetLatestInitByCustomer(context.Context, string) (*cardEntities.UserCard, error) {
	return nil, nil
}
func (f *fakePaymentCardRepo) GetDefaultByUser(_ context.Context, userID uuid.UUID) (*cardEntities.UserCard, error) {
	for _, c := range f.byID {
		if c.UserID == userID && c.IsDefault {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakePaymentCardRepo) ListSuccessByUser(context.Context, uuid.UUID) ([]cardEntities.UserCard, error) {
	return nil, nil
}
func (f *fakePaymentCardRepo) GetMany(context.Context, cardEntities.ListFilters) ([]cardEntities.UserCard, error) {
	return nil, nil
}
func (f *fakePaymentCardRepo) Update(context.Context, *cardEntities.UserCard) error { return nil }
func (f *fakePaymentCardRepo) Delete(context.Context, uuid.UUID) error              { return nil }

type fakeTransactionRepo struct {
	byID       map[uuid.UUID]*txEntities.Transaction
	byIntentID map[string]*txEntities.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		byID:       make(map[uuid.UUID]*txEntities.Transaction),
		byIntentID: make(map[string]*txEntities.Transaction),
	}
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *txEntities.Transaction) error {
	f.byID[tx.ID] = tx
	return nil
}

func (f *fakeTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*txEntities.Transaction, error) {
	return f.byID[id], nil
}

func (f *fakeTransactionRepo) GetByIntentID(_ context.Context, intentID string) (*txEntities.Transaction, error) {
	return f.byIntentID[intentID], nil
}

func (f *fakeTransactionRepo) GetMany(context.Context, txEntities.ListFilters) ([]txEntities.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactionRepo) Update(_ context.Context, tx *txEntities.Transaction) error {
	f.byID[tx.ID] = tx
	if tx.GatewayIntentID != nil {
		f.byIntentID[*tx.GatewayIntentID] = tx
	}
	return nil
}

var _ txRepositories.TransactionRepository = (*fakeTransactionRepo)(nil)

type fakePaymentProcessor struct {
	intentErr error
}

func (p fakePaymentProcessor) CreateCustomer(context.Context) (string, error) { return "cus_1", nil }
func (p fakePaymentProcessor) CreateCardBindingSession(context.Context, string) (string, error) {
	return "", nil
}
func (p fakePaymentProcessor) DetachCard(context.Context, string) error { return nil }
func (p fakePaymentProcessor) CreatePaymentIntent(context.Context, gateway.CreatePaymentIntentRequest) (*gateway.PaymentIntent, error) {
	if p.intentErr != nil {
		return nil, p.intentErr
	}
	return &gateway.PaymentIntent{IntentID: "pi_1"}, nil
}
func (p fakePaymentProcessor) CancelPaymentIntent(context.Context, string) error { return nil }

func newTestPaymentService(processor gateway.PaymentProcessor) (*PaymentService, *fakePaymentCardRepo, *fakeTransactionRepo) {
	cards := &fakePaymentCardRepo{byID: make(map[uuid.UUID]*cardEntities.UserCard)}
	txRepo := newFakeTransactionRepo()
	txService := txUsecases.NewTransactionService(txRepo, logger.NewLogger())
	return NewPaymentService(cards, txService, processor, logger.NewLogger()), cards, txRepo
}

func TestChargeSubscriptionRejectsUnboundCard(t *testing.T) {
	svc, cards, _ := newTestPaymentService(fakePaymentProcessor{})
	ctx := context.Background()
	userID := uuid.New()

	card := &cardEntities.UserCard{ID: uuid.New(), UserID: userID, Status: cardEntities.StatusInit}
	cards.byID[card.ID] = card

	_, err := svc.ChargeSubscription(ctx, userID, card.ID, uuid.New(), 1000, "usd")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, coreentities.ErrValidation, appErr.Type)
}

func TestChargeSubscriptionAttachesIntentOnSuccess(t *testing.T) {
	svc, cards, _ := newTestPaymentService(fakePaymentProcessor{})
	ctx := context.Background()
	userID := uuid.New()

	card := &cardEntities.UserCard{ID: uuid.New(), UserID: userID, Status: cardEntities.StatusSuccess, GatewayCustomerID: "cus_1"}
	cards.byID[card.ID] = card

	tx, err := svc.ChargeSubscription(ctx, userID, card.ID, uuid.New(), 1000, "usd")
	require.NoError(t, err)
	require.NotNil(t, tx.GatewayIntentID)
	assert.Equal(t, "pi_1", *tx.GatewayIntentID)
	assert.Equal(t, txEntities.StatusPending, tx.Status)
}

func TestChargeSubscriptionMarksFailedOnGatewayRejection(t *testing.T) {
	svc, cards, txRepo := newTestPaymentService(fakePaymentProcessor{intentErr: &gateway.PermanentError{StatusCode: 402, Message: "card declined"}})
	ctx := context.Background()
	userID := uuid.New()

	card := &cardEntities.UserCard{ID: uuid.New(), UserID: userID, Status: cardEntities.StatusSuccess, GatewayCustomerID: "cus_1"}
	cards.byID[card.ID] = card

	_, err := svc.ChargeSubscription(ctx, userID, card.ID, uuid.New(), 1000, "usd")
	require.Error(t, err)

	var found *txEntities.Transaction
	for _, tx := range txRepo.byID {
		found = tx
	}
	require.NotNil(t, found)
	assert.Equal(t, txEntities.StatusFailed, found.Status)
}

func TestHandlePaymentSucceededIsIdempotentOnReplay(t *testing.T) {
	svc, cards, txRepo := newTestPaymentService(fakePaymentProcessor{})
	ctx := context.Background()
	userID := uuid.New()

	card := &cardEntities.UserCard{ID: uuid.New(), UserID: userID, Status: cardEntities.StatusSuccess, GatewayCustomerID: "cus_1"}
	cards.byID[card.ID] = card

	tx, err := svc.ChargeSubscription(ctx, userID, card.ID, uuid.New(), 1000, "usd")
	require.NoError(t, err)
	_ = txRepo

	first, err := svc.HandlePaymentSucceeded(ctx, *tx.GatewayIntentID)
	require.NoError(t, err)
	assert.Equal(t, txEntities.StatusSuccess, first.Status)

	second, err := svc.HandlePaymentSucceeded(ctx, *tx.GatewayIntentID)
	require.NoError(t, err)
	assert.Equal(t, txEntities.StatusSuccess, second.Status)
}

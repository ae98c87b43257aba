// Package usecases implements PaymentManager: charging a subscription through the gateway and
// reconciling the terminal webhook event back onto the transaction record.
package usecases

import (
	"context"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	cardEntities "github.com/northlane/billingctl/features/cards/domain/entities"
	cardRepositories "github.com/northlane/billingctl/features/cards/domain/repositories"
	txEntities "github.com/northlane/billingctl/features/transactions/domain/entities"
	txUsecases "github.com/northlane/billingctl/features/transactions/domain/usecases"
	"github.com/northlane/billingctl/internal/gateway"
	"github.com/google/uuid"
)

// PaymentService implements PaymentManager.
type PaymentService struct {
	cards        cardRepositories.CardRepository
	transactions *txUsecases.TransactionService
	processor    gateway.PaymentProcessor
	logger       logger.Logger
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(
	cards cardRepositories.CardRepository,
	transactions *txUsecases.TransactionService,
	processor gateway.PaymentProcessor,
	logger logger.Logger,
) *PaymentService {
	return &PaymentService{cards: cards, transactions: transactions, processor: processor, logger: logger}
}

// ChargeSubscription opens a pending transaction and drives the gateway to produce a payment
// intent against the user's card. The intent carries subscription_id and user_id in its
// metadata. The webhook handlers below look the transaction up by gateway intent id only, so if
// the process stops between creating the intent and attaching its id, a later webhook for that
// intent finds no transaction; no path matches it by subscription_id.
func (s *PaymentService) ChargeSubscription(ctx context.Context, userID, cardID, subscriptionID uuid.UUID, amountCents int64, currency string) (*txEntities.Transaction, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, errors.NotFound("card not found")
	}
	if card.UserID != userID {
		return nil, errors.AccessDeniedError("not the owner of this card")
	}
	if card.Status != cardEntities.StatusSuccess {
		return nil, errors.ValidationError("card is not bound successfully")
	}

	tx, err := s.transactions.Create(ctx, txEntities.CreateParams{
		SubscriptionID: subscriptionID,
		UserID:         userID,
		AmountCents:    amountCents,
		PaymentType:    txEntities.PaymentTypeStripe,
		UserCardID:     cardID,
	})
	if err != nil {
		return nil, err
	}

	intent, err := s.processor.CreatePaymentIntent(ctx, gateway.CreatePaymentIntentRequest{
		AmountCents:        amountCents,
		Currency:           currency,
		CustomerID:         card.GatewayCustomerID,
		PaymentMethodToken: derefToken(card.GatewayPaymentMethodToken),
		Metadata: map[string]string{
			"subscription_id": subscriptionID.String(),
			"user_id":         userID.String(),
		},
	})
	if err != nil {
		if _, changeErr := s.transactions.ChangeStatus(ctx, tx.ID, txEntities.StatusFailed); changeErr != nil {
			s.logger.LogError(ctx, "failed to mark transaction FAILED after gateway rejection", changeErr)
		}
		return nil, errors.PaymentCreateError("gateway rejected payment intent creation", err)
	}

	updated, err := s.transactions.AttachIntent(ctx, tx.ID, intent.IntentID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func derefToken(token *string) string {
	if token == nil {
		return ""
	}
	return *token
}

// HandlePaymentSucceeded locates the transaction by gateway intent id and marks it SUCCESS.
// A second delivery finds the transaction already SUCCESS and no-ops.
func (s *PaymentService) HandlePaymentSucceeded(ctx context.Context, intentID string) (*txEntities.Transaction, error) {
	tx, err := s.transactions.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	return s.transactions.ChangeStatus(ctx, tx.ID, txEntities.StatusSuccess)
}

// HandlePaymentFailed marks the transaction FAILED.
func (s *PaymentService) HandlePaymentFailed(ctx context.Context, intentID string) (*txEntities.Transaction, error) {
	tx, err := s.transactions.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	return s.transactions.ChangeStatus(ctx, tx.ID, txEntities.StatusFailed)
}

// HandlePaymentRefunded marks the transaction REFUNDED.
func (s *PaymentService) HandlePaymentRefunded(ctx context.Context, intentID string) (*txEntities.Transaction, error) {
	tx, err := s.transactions.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	return s.transactions.ChangeStatus(ctx, tx.ID, txEntities.StatusRefunded)
}

// Package usecases implements TransactionService: CRUD plus status-update rules keyed by
// gateway intent id, used by PaymentManager's payment-intent orchestration.
package usecases

import (
	"context"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/features/transactions/domain/entities"
	"github.com/northlane/billingctl/features/transactions/domain/repositories"
	"github.com/google/uuid"
)

// TransactionService implements CRUD and status-legality rules for transactions.
type TransactionService struct {
	repo   repositories.TransactionRepository
	logger logger.Logger
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(repo repositories.TransactionRepository, logger logger.Logger) *TransactionService {
	return &TransactionService{repo: repo, logger: logger}
}

// Create opens a new transaction in PENDING.
func (s *TransactionService) Create(ctx context.Context, params entities.CreateParams) (*entities.Transaction, error) {
	tx := &entities.Transaction{
		ID:              uuid.New(),
		SubscriptionID:  params.SubscriptionID,
		UserID:          params.UserID,
		AmountCents:     params.AmountCents,
		PaymentType:     params.PaymentType,
		Status:          entities.StatusPending,
		UserCardID:      params.UserCardID,
		GatewayIntentID: params.GatewayIntentID,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// AttachIntent records the gateway's payment-intent id on a pending transaction, used after
// CreatePaymentIntent succeeds.
func (s *TransactionService) AttachIntent(ctx context.Context, id uuid.UUID, intentID string) (*entities.Transaction, error) {
	tx, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.GatewayIntentID = &intentID
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// ChangeStatus enforces the legality table in entities.CanTransition; a same-state request is
// a no-op, which is what makes repeated webhook delivery idempotent.
func (s *TransactionService) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus entities.Status) (*entities.Transaction, error) {
	tx, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entities.CanTransition(tx.Status, newStatus) {
		return nil, errors.ConflictError("illegal transaction status transition")
	}
	if tx.Status == newStatus {
		return tx, nil
	}
	tx.Status = newStatus
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetByID returns a transaction, NotFound if absent.
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, errors.NotFound("transaction not found")
	}
	return tx, nil
}

// GetByIntentID returns a transaction by its gateway intent id, NotFound if absent. Used by the
// payment webhook path, where the intent id is the only stable correlation key.
func (s *TransactionService) GetByIntentID(ctx context.Context, intentID string) (*entities.Transaction, error) {
	tx, err := s.repo.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, errors.NotFound("transaction not found for intent")
	}
	return tx, nil
}

// GetMany returns transactions matching filters.
func (s *TransactionService) GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.Transaction, error) {
	return s.repo.GetMany(ctx, filters)
}

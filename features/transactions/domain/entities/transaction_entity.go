// Package entities holds the transaction domain shape, its status state machine, and HTTP DTOs.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentType identifies which rail a transaction was charged through.
type PaymentType string

const (
	PaymentTypeStripe PaymentType = "stripe"
	PaymentTypeOther  PaymentType = "other"
)

// Status is a transaction's lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// legalTransitions enumerates every allowed Status -> Status edge, per the explicit legality
// table: undefined transitions are rejected rather than mirrored from any one source snapshot.
var legalTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusSuccess: true,
		StatusFailed:  true,
	},
	StatusSuccess: {
		StatusRefunded: true,
	},
}

// CanTransition reports whether moving from `from` to `to` is a legal state-machine edge.
// A same-state transition is always legal and is a no-op at the caller, which is what makes
// webhook redelivery idempotent.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return legalTransitions[from][to]
}

// Transaction records one attempt to charge a subscription through the gateway.
type Transaction struct {
	ID              uuid.UUID   `json:"id"`
	SubscriptionID  uuid.UUID   `json:"subscription_id"`
	UserID          uuid.UUID   `json:"user_id"`
	AmountCents     int64       `json:"amount_cents"`
	PaymentType     PaymentType `json:"payment_type"`
	Status          Status      `json:"status"`
	UserCardID      uuid.UUID   `json:"user_card_id"`
	GatewayIntentID *string     `json:"gateway_intent_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// CreateParams is the internal (non-HTTP) payload used by PaymentManager to open a transaction.
type CreateParams struct {
	SubscriptionID  uuid.UUID
	UserID          uuid.UUID
	AmountCents     int64
	PaymentType     PaymentType
	UserCardID      uuid.UUID
	GatewayIntentID *string
}

// ListFilters narrows GetMany; zero values are ignored by the repository.
type ListFilters struct {
	UserID         *uuid.UUID
	SubscriptionID *uuid.UUID
	Status         *Status
}

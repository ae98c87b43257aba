// Package entities holds the user card domain shape and the INIT -> SUCCESS|FAIL binding
// state machine driven by gateway webhook callbacks.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Status is a card's binding state, moving through the gateway's setup-intent callbacks.
type Status string

const (
	StatusInit    Status = "init"
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

// UserCard is a card bound to the gateway's off-session vault for a user.
type UserCard struct {
	ID                        uuid.UUID `json:"id"`
	UserID                    uuid.UUID `json:"user_id"`
	GatewayCustomerID         string    `json:"gateway_customer_id"`
	GatewayPaymentMethodToken *string   `json:"-"`
	Status                    Status    `json:"status"`
	LastDigits                *string   `json:"last_digits,omitempty"`
	IsDefault                 bool      `json:"is_default"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// ListFilters narrows the admin card listing; nil fields are ignored.
type ListFilters struct {
	UserID *uuid.UUID
	Status *Status
}

// Summary is the public listing shape returned by ListUserCards: it never leaks the gateway
// customer id or payment method token.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	LastDigits *string   `json:"last_digits,omitempty"`
	IsDefault  bool      `json:"is_default"`
}

// ToSummary projects a UserCard down to its public listing shape.
func (c UserCard) ToSummary() Summary {
	return Summary{ID: c.ID, LastDigits: c.LastDigits, IsDefault: c.IsDefault}
}

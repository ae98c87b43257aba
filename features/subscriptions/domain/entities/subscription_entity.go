// Package entities holds the subscription domain shape, its status state machine, and HTTP DTOs.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Status is a subscription's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// legalTransitions enumerates every allowed Status -> Status edge. Anything absent here is
// illegal and ChangeStatus must reject it.
var legalTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusActive:    true,
		StatusCancelled: true,
	},
	StatusActive: {
		StatusCancelled: true,
		StatusExpired:   true,
	},
}

// CanTransition reports whether moving from `from` to `to` is a legal state-machine edge.
// A same-state transition is always legal and is a no-op at the caller.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return legalTransitions[from][to]
}

// Subscription is a user's purchase of a Plan for a bounded time window.
type Subscription struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	PlanID      uuid.UUID `json:"plan_id"`
	Status      Status    `json:"status"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	AutoRenewal bool      `json:"auto_renewal"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest is the payload to subscribe to a plan.
type CreateRequest struct {
	PlanID      uuid.UUID `json:"plan_id" binding:"required"`
	AutoRenewal bool      `json:"auto_renewal"`
}

// RenewRequest carries the plan to renew into, which may differ from the expiring plan.
type RenewRequest struct {
	PlanID uuid.UUID `json:"plan_id" binding:"required"`
}

// ListFilters narrows List; nil fields are ignored. The handler forces UserID to the caller's
// own id for non-admin requests, so only admins ever list across users.
type ListFilters struct {
	UserID *uuid.UUID
	Status *Status
}

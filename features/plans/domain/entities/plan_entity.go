// Package entities holds the domain-level subscription plan shape and its HTTP DTOs.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a purchasable subscription tier. Price is stored in the minor currency unit
// (e.g. cents) to avoid floating-point drift in billing arithmetic.
type Plan struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	DurationDays int       `json:"duration_days"`
	IsArchive    bool      `json:"is_archive"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRequest is the admin-only payload to create a plan.
type CreateRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	PriceCents   int64  `json:"price_cents" binding:"required,min=0"`
	DurationDays int    `json:"duration_days" binding:"required,gt=0"`
}

// UpdateRequest is the admin-only partial-update payload. Nil fields are left untouched.
type UpdateRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	PriceCents   *int64  `json:"price_cents" binding:"omitempty,min=0"`
	DurationDays *int    `json:"duration_days" binding:"omitempty,gt=0"`
	IsArchive    *bool   `json:"is_archive"`
}

// ListFilters narrows List; IsArchive is nil when the caller wants every plan (admin).
type ListFilters struct {
	IsArchive *bool
}

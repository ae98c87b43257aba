package models

import (
	"time"

	"github.com/northlane/billingctl/features/plans/domain/entities"
	"github.com/google/uuid"
)

// PlanModel is the GORM-mapped row for subscription_plans.
type PlanModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description  string    `gorm:"type:text;not null"`
	PriceCents   int64     `gorm:"not null"`
	DurationDays int       `gorm:"not null"`
	IsArchive    bool      `gorm:"not null;default:false;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name GORM would otherwise pluralize differently.
func (PlanModel) TableName() string {
	return "subscription_plans"
}

// ToEntity converts the row into its domain shape.
func (m *PlanModel) ToEntity() *entities.Plan {
	return &entities.Plan{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		PriceCents:   m.PriceCents,
		DurationDays: m.DurationDays,
		IsArchive:    m.IsArchive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromEntity populates the row from a domain value.
func (m *PlanModel) FromEntity(e *entities.Plan) {
	m.ID = e.ID
	m.Title = e.Title
	m.Description = e.Description
	m.PriceCents = e.PriceCents
	m.DurationDays = e.DurationDays
	m.IsArchive = e.IsArchive
}

package models

import (
	"time"

	"github.com/northlane/billingctl/features/subscriptions/domain/entities"
	"github.com/google/uuid"
)

// SubscriptionModel is the GORM-mapped row for subscriptions.
type SubscriptionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID      uuid.UUID `gorm:"type:uuid;not null"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null;index"`
	AutoRenewal bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name.
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToEntity converts the row to its domain shape.
func (m *SubscriptionModel) ToEntity() *entities.Subscription {
	return &entities.Subscription{
		ID:          m.ID,
		UserID:      m.UserID,
		PlanID:      m.PlanID,
		Status:      entities.Status(m.Status),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		AutoRenewal: m.AutoRenewal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromEntity populates the row from a domain value.
func (m *SubscriptionModel) FromEntity(e *entities.Subscription) {
	m.ID = e.ID
	m.UserID = e.UserID
	m.PlanID = e.PlanID
	m.Status = string(e.Status)
	m.StartDate = e.StartDate
	m.EndDate = e.EndDate
	m.AutoRenewal = e.AutoRenewal
}

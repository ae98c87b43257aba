package models

import (
	"time"

	"github.com/northlane/billingctl/features/transactions/domain/entities"
	"github.com/google/uuid"
)

// TransactionModel is the GORM-mapped row for transactions.
type TransactionModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	AmountCents     int64     `gorm:"not null"`
	PaymentType     string    `gorm:"type:varchar(20);not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	UserCardID      uuid.UUID `gorm:"type:uuid;not null"`
	GatewayIntentID *string   `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts the row to its domain shape.
func (m *TransactionModel) ToEntity() *entities.Transaction {
	return &entities.Transaction{
		ID:              m.ID,
		SubscriptionID:  m.SubscriptionID,
		UserID:          m.UserID,
		AmountCents:     m.AmountCents,
		PaymentType:     entities.PaymentType(m.PaymentType),
		Status:          entities.Status(m.Status),
		UserCardID:      m.UserCardID,
		GatewayIntentID: m.GatewayIntentID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromEntity populates the row from a domain value.
func (m *TransactionModel) FromEntity(e *entities.Transaction) {
	m.ID = e.ID
	m.SubscriptionID = e.SubscriptionID
	m.UserID = e.UserID
	m.AmountCents = e.AmountCents
	m.PaymentType = string(e.PaymentType)
	m.Status = string(e.Status)
	m.UserCardID = e.UserCardID
	m.GatewayIntentID = e.GatewayIntentID
}

package models

import (
	"time"

	"github.com/northlane/billingctl/features/cards/domain/entities"
	"github.com/google/uuid"
)

// CardModel is the GORM-mapped row for user_cards.
type CardModel struct {
	ID                        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID                    uuid.UUID `gorm:"type:uuid;not null;index"`
	GatewayCustomerID         string    `gorm:"type:varchar(255);not null;index"`
	GatewayPaymentMethodToken *string   `gorm:"type:varchar(255)"`
	Status                    string    `gorm:"type:varchar(20);not null;index"`
	LastDigits                *string   `gorm:"type:varchar(4)"`
	IsDefault                 bool      `gorm:"not null;default:false"`
	CreatedAt                 time.Time `gorm:"autoCreateTime"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name.
func (CardModel) TableName() string {
	return "user_cards"
}

// ToEntity converts the row to its domain shape.
func (m *CardModel) ToEntity() *entities.UserCard {
	return &entities.UserCard{
		ID:                        m.ID,
		UserID:                    m.UserID,
		GatewayCustomerID:         m.GatewayCustomerID,
		GatewayPaymentMethodToken: m.GatewayPaymentMethodToken,
		Status:                    entities.Status(m.Status),
		LastDigits:                m.LastDigits,
		IsDefault:                 m.IsDefault,
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}
}

// FromEntity populates the row from a domain value.
func (m *CardModel) FromEntity(e *entities.UserCard) {
	m.ID = e.ID
	m.UserID = e.UserID
	m.GatewayCustomerID = e.GatewayCustomerID
	m.GatewayPaymentMethodToken = e.GatewayPaymentMethodToken
	m.Status = string(e.Status)
	m.LastDigits = e.LastDigits
	m.IsDefault = e.IsDefault
}

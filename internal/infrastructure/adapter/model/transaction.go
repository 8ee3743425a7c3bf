package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents the database model for settlement transactions
type Transaction struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StellarAccount      string          `gorm:"not null;size:56;index"`
	Amount              decimal.Decimal `gorm:"type:numeric(30,7);not null"`
	AssetCode           string          `gorm:"not null;size:12"`
	Status              string          `gorm:"not null;size:20;index"`
	AnchorTransactionID *string         `gorm:"size:255;index"`
	SettlementID        *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

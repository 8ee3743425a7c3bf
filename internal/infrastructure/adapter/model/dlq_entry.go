package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DlqEntry represents the database model for dead-letter-queue entries.
// Transaction fields are denormalized on purpose and transaction_id carries
// no foreign key: DLQ rows must stay valid as standalone forensic records.
type DlqEntry struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	StellarAccount      string          `gorm:"not null;size:56"`
	Amount              decimal.Decimal `gorm:"type:numeric(30,7);not null"`
	AssetCode           string          `gorm:"not null;size:12"`
	AnchorTransactionID *string         `gorm:"size:255"`
	ErrorReason         string          `gorm:"type:text;not null"`
	StackTrace          *string         `gorm:"type:text"`
	RetryCount          int             `gorm:"not null"`
	OriginalCreatedAt   time.Time       `gorm:"not null"`
	MovedToDlqAt        time.Time       `gorm:"not null;index"`
	LastRetryAt         *time.Time
}

// TableName specifies the table name for DlqEntry
func (DlqEntry) TableName() string {
	return "transaction_dlq"
}

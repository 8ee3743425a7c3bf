package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DlqEntry is the quarantine record for a transaction that exhausted its
// retries or hit a permanent failure. The transaction fields are denormalized
// at quarantine time so the entry stays forensically self-sufficient even if
// the source row changes later. transaction_id is a back-reference only;
// the transaction row continues to exist with status "dlq".
type DlqEntry struct {
	ID                  uuid.UUID
	TransactionID       uuid.UUID
	StellarAccount      string
	Amount              decimal.Decimal
	AssetCode           string
	AnchorTransactionID *string
	ErrorReason         string
	StackTrace          *string
	RetryCount          int
	OriginalCreatedAt   time.Time
	MovedToDlqAt        time.Time
	LastRetryAt         *time.Time
}

// NewDlqEntry snapshots a transaction into a quarantine record
func NewDlqEntry(
	tx *Transaction,
	errorReason string,
	stackTrace *string,
	retryCount int,
	lastRetryAt *time.Time,
	movedAt time.Time,
) *DlqEntry {
	return &DlqEntry{
		ID:                  uuid.New(),
		TransactionID:       tx.ID,
		StellarAccount:      tx.StellarAccount,
		Amount:              tx.Amount,
		AssetCode:           tx.AssetCode,
		AnchorTransactionID: tx.AnchorTransactionID,
		ErrorReason:         errorReason,
		StackTrace:          stackTrace,
		RetryCount:          retryCount,
		OriginalCreatedAt:   tx.CreatedAt,
		MovedToDlqAt:        movedAt,
		LastRetryAt:         lastRetryAt,
	}
}

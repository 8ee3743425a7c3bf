package dto

import (
	"time"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// DlqEntryResponse represents a quarantined transaction in API responses
type DlqEntryResponse struct {
	ID                  string     `json:"id"`
	TransactionID       string     `json:"transactionId"`
	StellarAccount      string     `json:"stellarAccount"`
	Amount              string     `json:"amount"`
	AssetCode           string     `json:"assetCode"`
	AnchorTransactionID *string    `json:"anchorTransactionId,omitempty"`
	ErrorReason         string     `json:"errorReason"`
	RetryCount          int        `json:"retryCount"`
	OriginalCreatedAt   time.Time  `json:"originalCreatedAt"`
	MovedToDlqAt        time.Time  `json:"movedToDlqAt"`
	LastRetryAt         *time.Time `json:"lastRetryAt,omitempty"`
}

// DlqListResponse wraps a page of quarantined entries with the total count
type DlqListResponse struct {
	DlqEntries []DlqEntryResponse `json:"dlq_entries"`
	Count      int64              `json:"count"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// RequeueResponse reports a successful requeue
type RequeueResponse struct {
	Message       string `json:"message"`
	DlqID         string `json:"dlq_id"`
	TransactionID string `json:"transaction_id"`
}

// ToDlqEntryResponse maps a quarantine record into its API shape. The stack
// trace stays internal; it is available through the audit trail tooling, not
// the listing API.
func ToDlqEntryResponse(entry *entity.DlqEntry) DlqEntryResponse {
	return DlqEntryResponse{
		ID:                  entry.ID.String(),
		TransactionID:       entry.TransactionID.String(),
		StellarAccount:      entry.StellarAccount,
		Amount:              entry.Amount.String(),
		AssetCode:           entry.AssetCode,
		AnchorTransactionID: entry.AnchorTransactionID,
		ErrorReason:         entry.ErrorReason,
		RetryCount:          entry.RetryCount,
		OriginalCreatedAt:   entry.OriginalCreatedAt,
		MovedToDlqAt:        entry.MovedToDlqAt,
		LastRetryAt:         entry.LastRetryAt,
	}
}

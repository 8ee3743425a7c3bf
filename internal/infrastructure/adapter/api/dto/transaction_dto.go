package dto

import (
	"time"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	"github.com/anchorpay/settlement-processor/internal/domain/usecase/processor"
)

// CreateTransactionRequest represents the API request for submitting a settlement transaction
type CreateTransactionRequest struct {
	StellarAccount      string  `json:"stellarAccount" binding:"required"`
	Amount              string  `json:"amount" binding:"required"`
	AssetCode           string  `json:"assetCode" binding:"required"`
	AnchorTransactionID *string `json:"anchorTransactionId"`
}

// TransactionResponse represents a settlement transaction in API responses
type TransactionResponse struct {
	ID                  string    `json:"id"`
	StellarAccount      string    `json:"stellarAccount"`
	Amount              string    `json:"amount"`
	AssetCode           string    `json:"assetCode"`
	Status              string    `json:"status"`
	AnchorTransactionID *string   `json:"anchorTransactionId,omitempty"`
	SettlementID        *string   `json:"settlementId,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// TransactionListResponse wraps a page of transactions
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ProcessResponse represents the outcome of one processing run
type ProcessResponse struct {
	TransactionID    string  `json:"transactionId"`
	Status           string  `json:"status"`
	AlreadyCompleted bool    `json:"alreadyCompleted"`
	Quarantined      bool    `json:"quarantined"`
	DlqEntryID       *string `json:"dlqEntryId,omitempty"`
	RetryCount       int     `json:"retryCount"`
	ErrorReason      string  `json:"errorReason,omitempty"`
}

// AssignSettlementRequest carries the settlement batch to link to a transaction
type AssignSettlementRequest struct {
	SettlementID string `json:"settlementId" binding:"required,uuid"`
}

// ToTransactionResponse maps a domain transaction into its API shape
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                  tx.ID.String(),
		StellarAccount:      tx.StellarAccount,
		Amount:              tx.Amount.String(),
		AssetCode:           tx.AssetCode,
		Status:              string(tx.Status),
		AnchorTransactionID: tx.AnchorTransactionID,
		CreatedAt:           tx.CreatedAt,
		UpdatedAt:           tx.UpdatedAt,
	}
	if tx.SettlementID != nil {
		settlementID := tx.SettlementID.String()
		resp.SettlementID = &settlementID
	}
	return resp
}

// ToProcessResponse maps a processing result into its API shape
func ToProcessResponse(result *processor.ProcessResult) ProcessResponse {
	resp := ProcessResponse{
		TransactionID:    result.TransactionID.String(),
		Status:           string(result.Status),
		AlreadyCompleted: result.AlreadyCompleted,
		Quarantined:      result.Quarantined,
		RetryCount:       result.RetryCount,
		ErrorReason:      result.ErrorReason,
	}
	if result.DlqEntryID != nil {
		dlqID := result.DlqEntryID.String()
		resp.DlqEntryID = &dlqID
	}
	return resp
}

package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	tport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
)

// TransactionStatus defines possible status values for a settlement transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusDlq        TransactionStatus = "dlq"
)

// MaxAssetCodeLength bounds the asset code field (Stellar allows up to 12 characters)
const MaxAssetCodeLength = 12

// stellarAccountLength is the fixed length of a Stellar public account address
const stellarAccountLength = 56

// Transaction represents a settlement transaction awaiting verification
// against the external ledger. Rows are never deleted; quarantined
// transactions keep their row with status "dlq".
type Transaction struct {
	ID                  uuid.UUID
	StellarAccount      string
	Amount              decimal.Decimal
	AssetCode           string
	Status              TransactionStatus
	AnchorTransactionID *string
	SettlementID        *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewTransaction creates a new pending transaction with validation
func NewTransaction(
	stellarAccount string,
	amount string,
	assetCode string,
	anchorTransactionID *string,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if err := ValidateStellarAccount(stellarAccount); err != nil {
		return nil, err
	}

	parsedAmount, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	if err := ValidateAssetCode(assetCode); err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Transaction{
		ID:                  uuid.New(),
		StellarAccount:      stellarAccount,
		Amount:              parsedAmount,
		AssetCode:           assetCode,
		Status:              StatusPending,
		AnchorTransactionID: anchorTransactionID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// IsTerminal reports whether the transaction has reached its success state.
// DLQ is durable but not terminal, since requeue can return it to pending.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusCompleted
}

// CanTransitionTo reports whether moving to next respects the monotonic
// lifecycle: pending → processing → completed, with the quarantine branch
// pending/processing → dlq → pending (requeue only).
func (t *Transaction) CanTransitionTo(next TransactionStatus) bool {
	switch t.Status {
	case StatusPending:
		return next == StatusProcessing || next == StatusDlq
	case StatusProcessing:
		return next == StatusCompleted || next == StatusDlq
	case StatusDlq:
		return next == StatusPending
	case StatusCompleted:
		return false
	}
	return false
}

// TransitionTo applies a status change after checking the lifecycle invariant
func (t *Transaction) TransitionTo(next TransactionStatus, timeProvider tport.TimeProvider) error {
	if !t.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidStatusTransition, t.Status, next)
	}
	t.Status = next
	t.UpdatedAt = timeProvider.Now()
	return nil
}

// Snapshot captures the transaction's business fields as a structured value
// for the creation audit entry
func (t *Transaction) Snapshot() Value {
	fields := map[string]Value{
		"stellar_account": StringValue(t.StellarAccount),
		"amount":          StringValue(t.Amount.String()),
		"asset_code":      StringValue(t.AssetCode),
		"status":          StringValue(string(t.Status)),
	}
	if t.AnchorTransactionID != nil {
		fields["anchor_transaction_id"] = StringValue(*t.AnchorTransactionID)
	} else {
		fields["anchor_transaction_id"] = NullValue()
	}
	return ObjectValue(fields)
}

// ValidateStellarAccount checks the fixed-format ledger address: 56
// characters, G prefix, base32 alphabet
func ValidateStellarAccount(account string) error {
	if len(account) != stellarAccountLength {
		return fmt.Errorf("%w: must be %d characters", errs.ErrInvalidStellarAccount, stellarAccountLength)
	}
	if account[0] != 'G' {
		return fmt.Errorf("%w: must start with G", errs.ErrInvalidStellarAccount)
	}
	for _, c := range account {
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return fmt.Errorf("%w: invalid character %q", errs.ErrInvalidStellarAccount, c)
		}
	}
	return nil
}

// ValidateAmount parses the amount and rejects non-positive values.
// Amounts move through the system as arbitrary-precision decimals; floats
// are never used for money.
func ValidateAmount(amount string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount)
	}
	if !parsed.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: must be positive", errs.ErrInvalidAmount)
	}
	return parsed, nil
}

// ValidateAssetCode checks the bounded-length asset code
func ValidateAssetCode(assetCode string) error {
	if assetCode == "" {
		return fmt.Errorf("%w: must not be empty", errs.ErrInvalidAssetCode)
	}
	if len(assetCode) > MaxAssetCodeLength {
		return fmt.Errorf("%w: longer than %d characters", errs.ErrInvalidAssetCode, MaxAssetCodeLength)
	}
	return nil
}

// IsValidStatus reports whether s is a known transaction status
func IsValidStatus(s string) bool {
	switch TransactionStatus(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusDlq:
		return true
	}
	return false
}

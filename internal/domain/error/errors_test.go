package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"InvalidAmount", ErrInvalidAmount, CodeInvalidAmount},
		{"InvalidStellarAccount", ErrInvalidStellarAccount, CodeInvalidStellarAccount},
		{"TransactionNotFound", ErrTransactionNotFound, CodeTransactionNotFound},
		{"DlqEntryNotFound", ErrDlqEntryNotFound, CodeDlqEntryNotFound},
		{"TransactionBusy", ErrTransactionBusy, CodeTransactionBusy},
		{"OperationAborted", ErrOperationAborted, CodeOperationAborted},
		{"AuditWriteFailed", ErrAuditWriteFailed, CodeOperationAborted},
		{"DatabaseConnection", ErrDatabaseConnection, CodeDatabaseConnection},
		{"WrappedNotFound", fmt.Errorf("lookup failed: %w", ErrTransactionNotFound), CodeTransactionNotFound},
		{"Unknown", errors.New("something else"), CodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorCode(tt.err))
		})
	}
}

func TestVerificationError(t *testing.T) {
	t.Run("Transient", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewTransientVerificationError("anchor-123", "horizon timeout", cause)

		assert.True(t, errors.Is(err, ErrVerificationUnavailable))
		assert.False(t, errors.Is(err, ErrVerificationRejected))
		assert.True(t, IsTransientVerificationError(err))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "transient")
		assert.Contains(t, err.Error(), "anchor-123")
	})

	t.Run("Permanent", func(t *testing.T) {
		err := NewPermanentVerificationError("anchor-456", "asset mismatch", nil)

		assert.True(t, errors.Is(err, ErrVerificationRejected))
		assert.False(t, errors.Is(err, ErrVerificationUnavailable))
		assert.True(t, IsPermanentVerificationError(err))
		assert.Contains(t, err.Error(), "permanent")
	})

	t.Run("LogFields", func(t *testing.T) {
		err := NewTransientVerificationError("anchor-789", "io failure", errors.New("EOF"))
		var verr *VerificationError
		assert.True(t, errors.As(err, &verr))

		fields := verr.LogFields()
		assert.Equal(t, "verification_error", fields["error_type"])
		assert.Equal(t, "anchor-789", fields["anchor_transaction_id"])
		assert.Equal(t, true, fields["transient"])
		assert.Equal(t, "EOF", fields["error"])
	})
}

func TestOperationAbortedError(t *testing.T) {
	cause := errors.New("audit insert failed")
	err := NewOperationAbortedError("move_to_dlq", cause)

	assert.True(t, IsOperationAborted(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "move_to_dlq")

	var aborted *OperationAbortedError
	assert.True(t, errors.As(err, &aborted))
	assert.Equal(t, "move_to_dlq", aborted.LogFields()["operation"])
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrTransactionNotFound))
	assert.True(t, IsNotFoundError(ErrDlqEntryNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.False(t, IsNotFoundError(ErrTransactionBusy))
	assert.False(t, IsNotFoundError(nil))
}

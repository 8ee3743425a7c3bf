package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	domainErr "github.com/anchorpay/settlement-processor/internal/domain/error"
)

func TestMapErrorClassification(t *testing.T) {
	mapper := NewErrorMapper()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil stays nil",
			err:      nil,
			expected: nil,
		},
		{
			name:     "record not found",
			err:      gorm.ErrRecordNotFound,
			expected: domainErr.ErrNotFound,
		},
		{
			name:     "serialization conflict aborts the scope",
			err:      errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)"),
			expected: domainErr.ErrOperationAborted,
		},
		{
			name:     "deadlock aborts the scope",
			err:      errors.New("deadlock detected"),
			expected: domainErr.ErrOperationAborted,
		},
		{
			name:     "duplicate key",
			err:      errors.New(`duplicate key value violates unique constraint "idx_transactions_anchor_transaction_id"`),
			expected: domainErr.ErrDuplicateTransaction,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			expected: domainErr.ErrDatabaseConnection,
		},
		{
			name:     "statement timeout",
			err:      errors.New("canceling statement due to statement timeout"),
			expected: domainErr.ErrDatabaseConnection,
		},
		{
			name:     "not null violation",
			err:      errors.New(`null value in column "error_reason" violates not-null constraint`),
			expected: domainErr.ErrInvalidRequest,
		},
		{
			name:     "unknown error",
			err:      errors.New("something unexpected"),
			expected: domainErr.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapper.MapError(tt.err, "commit")
			if tt.expected == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tt.expected)
		})
	}
}

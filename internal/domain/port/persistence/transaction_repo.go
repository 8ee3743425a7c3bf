package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with settlement
// transaction data. Mutating calls must run inside a UnitOfWork scope so
// callers can pair them with the matching audit append; use
// UnitOfWork.GetTransactionRepository to obtain a scope-bound instance.
type TransactionRepository interface {
	// Insert saves a new transaction
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If a transaction with the same ID already exists
	// - ErrDatabaseConnection: If the database is unreachable
	Insert(ctx context.Context, transaction *entity.Transaction) error

	// UpdateStatus changes the transaction's status and returns the updated row.
	// The caller is responsible for validating the transition and writing the
	// paired audit entry in the same scope.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction with the given ID exists
	// - ErrDatabaseConnection: If the database is unreachable
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TransactionStatus) (*entity.Transaction, error)

	// AssignSettlement links the transaction to a settlement
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction with the given ID exists
	// - ErrDatabaseConnection: If the database is unreachable
	AssignSettlement(ctx context.Context, id uuid.UUID, settlementID uuid.UUID) (*entity.Transaction, error)

	// Get retrieves a transaction by ID
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction with the given ID exists
	// - ErrDatabaseConnection: If the database is unreachable
	Get(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// List returns transactions ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error)

	// ListByStatus returns up to limit transactions in the given status,
	// oldest first. Used by the pending worker to pick up work.
	ListByStatus(ctx context.Context, status entity.TransactionStatus, limit int) ([]*entity.Transaction, error)
}

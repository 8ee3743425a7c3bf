package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// DlqRepository defines methods for the dead-letter-queue store. Insert and
// Remove participate in the Processor's atomic scopes: an entry is inserted
// in the same scope as the status change to "dlq", and removed in the same
// scope as the requeue reset back to "pending".
type DlqRepository interface {
	// Insert saves a new quarantine entry
	//
	// Possible errors:
	// - ErrDatabaseConnection: If the database is unreachable
	Insert(ctx context.Context, entry *entity.DlqEntry) error

	// Get retrieves a DLQ entry by ID
	//
	// Possible errors:
	// - ErrDlqEntryNotFound: If no entry with the given ID exists
	// - ErrDatabaseConnection: If the database is unreachable
	Get(ctx context.Context, id uuid.UUID) (*entity.DlqEntry, error)

	// List returns entries ordered by moved_to_dlq_at, most recent first
	List(ctx context.Context, limit, offset int) ([]*entity.DlqEntry, error)

	// Count returns the total number of quarantined entries
	Count(ctx context.Context) (int64, error)

	// Remove deletes a DLQ entry. Used only by requeue; the transaction row
	// itself is never deleted.
	//
	// Possible errors:
	// - ErrDlqEntryNotFound: If no entry with the given ID exists
	// - ErrDatabaseConnection: If the database is unreachable
	Remove(ctx context.Context, id uuid.UUID) error
}

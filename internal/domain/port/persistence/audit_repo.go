package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// AuditLogRepository defines access to the append-only audit trail. The
// interface deliberately exposes no update or delete operation: audit rows
// are immutable once written, which makes the append-only invariant
// structurally impossible to violate through this port.
type AuditLogRepository interface {
	// Insert appends one audit entry. Must be called with a scope-bound
	// repository so a failed append rolls back the business mutation it
	// records.
	//
	// Possible errors:
	// - ErrAuditWriteFailed: If the append fails for any reason
	Insert(ctx context.Context, log *entity.AuditLog) error

	// ListByEntity returns the entity's audit entries ordered by creation
	// time, newest first
	ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error)

	// CountByEntity returns the number of audit entries for an entity
	CountByEntity(ctx context.Context, entityID uuid.UUID) (int64, error)
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// EntityTypeTransaction discriminates transaction rows in the audit trail.
// EntityType is an open string so future entities can audit themselves
// without touching this package.
const EntityTypeTransaction = "transaction"

// Conventional audit actions. Entity-specific verbs (moved_to_dlq, requeued,
// "{field}_update") are composed where the change happens.
const (
	ActionCreated      = "created"
	ActionDeleted      = "deleted"
	ActionStatusUpdate = "status_update"
	ActionMovedToDlq   = "moved_to_dlq"
	ActionRequeued     = "requeued"
)

// ActorSystem is the default actor attributed to unattended state changes
const ActorSystem = "system"

// AuditLog is one immutable entry of the non-repudiation ledger. Entries are
// created exactly once, inside the same atomic scope as the change they
// record, and are never updated or deleted. OldVal is nil for creations and
// NewVal is nil for deletions.
type AuditLog struct {
	ID         uuid.UUID
	EntityID   uuid.UUID
	EntityType string
	Action     string
	OldVal     *Value
	NewVal     *Value
	Actor      string
	Timestamp  time.Time
	CreatedAt  time.Time
}

// NewAuditLog creates a new audit log entry stamped with the business time
// of the event. Empty actors fall back to the system actor.
func NewAuditLog(
	entityID uuid.UUID,
	entityType string,
	action string,
	oldVal *Value,
	newVal *Value,
	actor string,
	timestamp time.Time,
) *AuditLog {
	if actor == "" {
		actor = ActorSystem
	}
	return &AuditLog{
		ID:         uuid.New(),
		EntityID:   entityID,
		EntityType: entityType,
		Action:     action,
		OldVal:     oldVal,
		NewVal:     newVal,
		Actor:      actor,
		Timestamp:  timestamp,
	}
}

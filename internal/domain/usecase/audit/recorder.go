package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/domain/port/persistence"
)

// Recorder appends immutable audit entries for every state mutation. It
// writes through the repository bound to the caller's atomic scope, so a
// failed append aborts the business mutation it records and vice versa.
// The recorder never retries: missing audit trail is treated the same as a
// failed state change.
type Recorder struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewRecorder creates a new audit recorder
func NewRecorder(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Recorder {
	return &Recorder{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Record appends one audit entry within the scope carried by ctx
func (r *Recorder) Record(
	ctx context.Context,
	entityID uuid.UUID,
	entityType string,
	action string,
	oldVal *entity.Value,
	newVal *entity.Value,
	actor string,
) (*entity.AuditLog, error) {
	log := entity.NewAuditLog(entityID, entityType, action, oldVal, newVal, actor, r.timeProvider.Now())

	repo := r.uow.GetAuditLogRepository(ctx)
	if err := repo.Insert(ctx, log); err != nil {
		r.logger.Error("Audit log append failed", map[string]any{
			"entity_id":   entityID.String(),
			"entity_type": entityType,
			"action":      action,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("%w: %s on %s %s: %s",
			errs.ErrAuditWriteFailed, action, entityType, entityID, err.Error())
	}

	return log, nil
}

// LogCreation records a creation event: old_val is null, new_val is the
// created snapshot
func (r *Recorder) LogCreation(
	ctx context.Context,
	entityID uuid.UUID,
	entityType string,
	snapshot entity.Value,
	actor string,
) (*entity.AuditLog, error) {
	return r.Record(ctx, entityID, entityType, entity.ActionCreated, nil, &snapshot, actor)
}

// LogDeletion records a deletion event: old_val is the final snapshot,
// new_val is null
func (r *Recorder) LogDeletion(
	ctx context.Context,
	entityID uuid.UUID,
	entityType string,
	snapshot entity.Value,
	actor string,
) (*entity.AuditLog, error) {
	return r.Record(ctx, entityID, entityType, entity.ActionDeleted, &snapshot, nil, actor)
}

// LogStatusChange records a status transition as {"status": old} -> {"status": new}
func (r *Recorder) LogStatusChange(
	ctx context.Context,
	entityID uuid.UUID,
	entityType string,
	oldStatus string,
	newStatus string,
	actor string,
) (*entity.AuditLog, error) {
	oldVal := entity.StatusValue(oldStatus)
	newVal := entity.StatusValue(newStatus)
	return r.Record(ctx, entityID, entityType, entity.ActionStatusUpdate, &oldVal, &newVal, actor)
}

// LogFieldUpdate records a single-field change under the action
// "{fieldName}_update"
func (r *Recorder) LogFieldUpdate(
	ctx context.Context,
	entityID uuid.UUID,
	entityType string,
	fieldName string,
	oldValue entity.Value,
	newValue entity.Value,
	actor string,
) (*entity.AuditLog, error) {
	oldVal := entity.FieldValue(fieldName, oldValue)
	newVal := entity.FieldValue(fieldName, newValue)
	return r.Record(ctx, entityID, entityType, fieldName+"_update", &oldVal, &newVal, actor)
}

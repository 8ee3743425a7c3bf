package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/model"
)

// AuditLogRepository implements persistence.AuditLogRepository using GORM.
// It only ever issues INSERT and SELECT statements; the append-only contract
// of the audit trail is enforced by the port, not by this implementation.
type AuditLogRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAuditLogRepository creates a new AuditLogRepository instance
func NewAuditLogRepository(db *gorm.DB, logger coreport.Logger) *AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditLogRepository) entityToModel(log *entity.AuditLog) (model.AuditLog, error) {
	oldVal, err := marshalValue(log.OldVal)
	if err != nil {
		return model.AuditLog{}, fmt.Errorf("marshal old_val: %w", err)
	}
	newVal, err := marshalValue(log.NewVal)
	if err != nil {
		return model.AuditLog{}, fmt.Errorf("marshal new_val: %w", err)
	}

	return model.AuditLog{
		ID:         log.ID,
		EntityID:   log.EntityID,
		EntityType: log.EntityType,
		Action:     log.Action,
		OldVal:     oldVal,
		NewVal:     newVal,
		Actor:      log.Actor,
		Timestamp:  log.Timestamp,
		CreatedAt:  log.CreatedAt,
	}, nil
}

func (r *AuditLogRepository) modelToEntity(m *model.AuditLog) (*entity.AuditLog, error) {
	oldVal, err := unmarshalValue(m.OldVal)
	if err != nil {
		return nil, fmt.Errorf("unmarshal old_val: %w", err)
	}
	newVal, err := unmarshalValue(m.NewVal)
	if err != nil {
		return nil, fmt.Errorf("unmarshal new_val: %w", err)
	}

	return &entity.AuditLog{
		ID:         m.ID,
		EntityID:   m.EntityID,
		EntityType: m.EntityType,
		Action:     m.Action,
		OldVal:     oldVal,
		NewVal:     newVal,
		Actor:      m.Actor,
		Timestamp:  m.Timestamp,
		CreatedAt:  m.CreatedAt,
	}, nil
}

// marshalValue encodes an optional structured value as jsonb. A nil value
// stays NULL in the column, distinct from JSON null.
func marshalValue(v *entity.Value) (model.JSONB, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return model.JSONB(data), nil
}

func unmarshalValue(data model.JSONB) (*entity.Value, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v entity.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Insert appends one audit entry
func (r *AuditLogRepository) Insert(ctx context.Context, log *entity.AuditLog) error {
	logModel, err := r.entityToModel(log)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrAuditWriteFailed, err.Error())
	}
	if logModel.CreatedAt.IsZero() {
		logModel.CreatedAt = log.Timestamp
	}

	result := r.db.WithContext(ctx).Create(&logModel)
	if result.Error != nil {
		r.logger.Error("Failed to insert audit log", map[string]any{
			"audit_log_id": log.ID.String(),
			"entity_id":    log.EntityID.String(),
			"action":       log.Action,
			"error":        result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrAuditWriteFailed, result.Error.Error())
	}

	log.CreatedAt = logModel.CreatedAt
	return nil
}

// ListByEntity returns the entity's audit entries ordered by creation time,
// newest first
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error) {
	var models []model.AuditLog
	result := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("Failed to list audit logs", map[string]any{
			"entity_id": entityID.String(),
			"error":     result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	logs := make([]*entity.AuditLog, 0, len(models))
	for i := range models {
		log, err := r.modelToEntity(&models[i])
		if err != nil {
			r.logger.Error("Corrupt audit log row", map[string]any{
				"audit_log_id": models[i].ID.String(),
				"error":        err.Error(),
			})
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

// CountByEntity returns the number of audit entries for an entity
func (r *AuditLogRepository) CountByEntity(ctx context.Context, entityID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Where("entity_id = ?", entityID).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return count, nil
}

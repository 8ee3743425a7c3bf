package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/model"
)

// DlqRepository implements persistence.DlqRepository using GORM
type DlqRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewDlqRepository creates a new DlqRepository instance
func NewDlqRepository(db *gorm.DB, logger coreport.Logger) *DlqRepository {
	return &DlqRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DlqRepository) entityToModel(entry *entity.DlqEntry) model.DlqEntry {
	return model.DlqEntry{
		ID:                  entry.ID,
		TransactionID:       entry.TransactionID,
		StellarAccount:      entry.StellarAccount,
		Amount:              entry.Amount,
		AssetCode:           entry.AssetCode,
		AnchorTransactionID: entry.AnchorTransactionID,
		ErrorReason:         entry.ErrorReason,
		StackTrace:          entry.StackTrace,
		RetryCount:          entry.RetryCount,
		OriginalCreatedAt:   entry.OriginalCreatedAt,
		MovedToDlqAt:        entry.MovedToDlqAt,
		LastRetryAt:         entry.LastRetryAt,
	}
}

func (r *DlqRepository) modelToEntity(m *model.DlqEntry) *entity.DlqEntry {
	return &entity.DlqEntry{
		ID:                  m.ID,
		TransactionID:       m.TransactionID,
		StellarAccount:      m.StellarAccount,
		Amount:              m.Amount,
		AssetCode:           m.AssetCode,
		AnchorTransactionID: m.AnchorTransactionID,
		ErrorReason:         m.ErrorReason,
		StackTrace:          m.StackTrace,
		RetryCount:          m.RetryCount,
		OriginalCreatedAt:   m.OriginalCreatedAt,
		MovedToDlqAt:        m.MovedToDlqAt,
		LastRetryAt:         m.LastRetryAt,
	}
}

// Insert saves a new quarantine entry
func (r *DlqRepository) Insert(ctx context.Context, entry *entity.DlqEntry) error {
	r.logger.Debug("Inserting DLQ entry", map[string]any{
		"dlq_entry_id":   entry.ID.String(),
		"transaction_id": entry.TransactionID.String(),
	})

	entryModel := r.entityToModel(entry)
	result := r.db.WithContext(ctx).Create(&entryModel)

	if result.Error != nil {
		r.logger.Error("Failed to insert DLQ entry", map[string]any{
			"dlq_entry_id":   entry.ID.String(),
			"transaction_id": entry.TransactionID.String(),
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return nil
}

// Get retrieves a DLQ entry by ID
func (r *DlqRepository) Get(ctx context.Context, id uuid.UUID) (*entity.DlqEntry, error) {
	var entryModel model.DlqEntry
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entryModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrDlqEntryNotFound
		}
		r.logger.Error("Failed to get DLQ entry", map[string]any{
			"dlq_entry_id": id.String(),
			"error":        result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&entryModel), nil
}

// List returns entries ordered by moved_to_dlq_at, most recent first
func (r *DlqRepository) List(ctx context.Context, limit, offset int) ([]*entity.DlqEntry, error) {
	var models []model.DlqEntry
	result := r.db.WithContext(ctx).
		Order("moved_to_dlq_at desc").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("Failed to list DLQ entries", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	entries := make([]*entity.DlqEntry, len(models))
	for i := range models {
		entries[i] = r.modelToEntity(&models[i])
	}
	return entries, nil
}

// Count returns the total number of quarantined entries
func (r *DlqRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.DlqEntry{}).Count(&count)

	if result.Error != nil {
		r.logger.Error("Failed to count DLQ entries", map[string]any{
			"error": result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return count, nil
}

// Remove deletes a DLQ entry. The transaction row itself is never deleted.
func (r *DlqRepository) Remove(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.DlqEntry{})

	if result.Error != nil {
		r.logger.Error("Failed to remove DLQ entry", map[string]any{
			"dlq_entry_id": id.String(),
			"error":        result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return errs.ErrDlqEntryNotFound
	}

	return nil
}

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

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(tx *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:                  tx.ID,
		StellarAccount:      tx.StellarAccount,
		Amount:              tx.Amount,
		AssetCode:           tx.AssetCode,
		Status:              string(tx.Status),
		AnchorTransactionID: tx.AnchorTransactionID,
		SettlementID:        tx.SettlementID,
		CreatedAt:           tx.CreatedAt,
		UpdatedAt:           tx.UpdatedAt,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:                  m.ID,
		StellarAccount:      m.StellarAccount,
		Amount:              m.Amount,
		AssetCode:           m.AssetCode,
		Status:              entity.TransactionStatus(m.Status),
		AnchorTransactionID: m.AnchorTransactionID,
		SettlementID:        m.SettlementID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// Insert saves a new transaction
func (r *TransactionRepository) Insert(ctx context.Context, tx *entity.Transaction) error {
	r.logger.Debug("Inserting transaction", map[string]any{
		"transaction_id":  tx.ID.String(),
		"stellar_account": tx.StellarAccount,
	})

	txModel := r.entityToModel(tx)
	result := r.db.WithContext(ctx).Create(&txModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate transaction detected", map[string]any{
				"transaction_id": tx.ID.String(),
			})
			return errs.ErrDuplicateTransaction
		}

		r.logger.Error("Failed to insert transaction", map[string]any{
			"transaction_id": tx.ID.String(),
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return nil
}

// UpdateStatus changes the transaction's status and returns the updated row
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TransactionStatus) (*entity.Transaction, error) {
	r.logger.Debug("Updating transaction status", map[string]any{
		"transaction_id": id.String(),
		"status":         string(status),
	})

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		r.logger.Error("Failed to update transaction status", map[string]any{
			"transaction_id": id.String(),
			"status":         string(status),
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Transaction not found during status update", map[string]any{
			"transaction_id": id.String(),
		})
		return nil, errs.ErrTransactionNotFound
	}

	return r.Get(ctx, id)
}

// AssignSettlement links the transaction to a settlement
func (r *TransactionRepository) AssignSettlement(ctx context.Context, id uuid.UUID, settlementID uuid.UUID) (*entity.Transaction, error) {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("settlement_id", settlementID)

	if result.Error != nil {
		r.logger.Error("Failed to assign settlement", map[string]any{
			"transaction_id": id.String(),
			"settlement_id":  settlementID.String(),
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return nil, errs.ErrTransactionNotFound
	}

	return r.Get(ctx, id)
}

// Get retrieves a transaction by ID
func (r *TransactionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&txModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"transaction_id": id.String(),
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&txModel), nil
}

// List returns transactions ordered by creation time, newest first
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	var models []model.Transaction
	result := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("Failed to list transactions", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = r.modelToEntity(&models[i])
	}
	return transactions, nil
}

// ListByStatus returns up to limit transactions in the given status, oldest
// first so the pending worker drains the queue in arrival order
func (r *TransactionRepository) ListByStatus(ctx context.Context, status entity.TransactionStatus, limit int) ([]*entity.Transaction, error) {
	var models []model.Transaction
	result := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at asc").
		Limit(limit).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("Failed to list transactions by status", map[string]any{
			"status": string(status),
			"error":  result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = r.modelToEntity(&models[i])
	}
	return transactions, nil
}

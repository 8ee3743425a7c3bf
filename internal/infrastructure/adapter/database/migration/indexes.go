package migration

import (
	"gorm.io/gorm"

	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
)

// IndexManager manages PostgreSQL-specific indexes
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateIndexes creates PostgreSQL indexes for better performance
func (m *IndexManager) CreateIndexes() error {
	m.logger.Info("Creating PostgreSQL indexes", nil)

	// Unique index on anchor_transaction_id for fast idempotency checks
	if err := m.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_anchor_transaction_id
		ON transactions (anchor_transaction_id)
		WHERE anchor_transaction_id IS NOT NULL AND anchor_transaction_id <> ''
	`).Error; err != nil {
		m.logger.Error("Failed to create unique index on anchor_transaction_id", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Partial index for the pending sweep performed by the worker
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_pending
		ON transactions (created_at)
		WHERE status = 'pending'
	`).Error; err != nil {
		m.logger.Error("Failed to create pending transactions partial index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Composite index for account and status filtered queries
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_account_status
		ON transactions (stellar_account, status)
	`).Error; err != nil {
		m.logger.Error("Failed to create account_status composite index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// BRIN index for created_at (more efficient for temporal data)
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
		ON transactions USING BRIN (created_at)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		m.logger.Error("Failed to create BRIN index on created_at", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Index on DLQ quarantine time for newest-first listings
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transaction_dlq_moved_at
		ON transaction_dlq (moved_to_dlq_at)
	`).Error; err != nil {
		m.logger.Error("Failed to create index on transaction_dlq.moved_to_dlq_at", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// One active DLQ entry per transaction
	if err := m.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_transaction_dlq_transaction_id
		ON transaction_dlq (transaction_id)
	`).Error; err != nil {
		m.logger.Error("Failed to create unique index on transaction_dlq.transaction_id", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Composite index for audit trail lookups by entity
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_logs_entity_created_at
		ON audit_logs (entity_id, entity_type, created_at)
	`).Error; err != nil {
		m.logger.Error("Failed to create audit entity composite index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("PostgreSQL indexes created successfully", nil)
	return nil
}

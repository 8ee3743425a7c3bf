package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/domain/port/persistence"
)

// DefaultPageSize bounds audit queries that do not specify a limit
const DefaultPageSize = 50

// Query serves paginated, read-only access to the audit trail
type Query struct {
	auditRepo persistence.AuditLogRepository
	logger    coreport.Logger
}

// NewQuery creates a new audit query service
func NewQuery(auditRepo persistence.AuditLogRepository, logger coreport.Logger) *Query {
	return &Query{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// GetAuditLogs returns the entity's audit entries, newest first, along with
// the entity's total entry count
func (q *Query) GetAuditLogs(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*entity.AuditLog, int64, error) {
	if limit <= 0 || limit > DefaultPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := q.auditRepo.ListByEntity(ctx, entityID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	count, err := q.auditRepo.CountByEntity(ctx, entityID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	return logs, count, nil
}

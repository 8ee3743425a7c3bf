package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// MockAuditLogRepository is a mock implementation of the
// persistence.AuditLogRepository interface
type MockAuditLogRepository struct {
	mock.Mock
}

// Insert mocks the Insert method
func (m *MockAuditLogRepository) Insert(ctx context.Context, log *entity.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// ListByEntity mocks the ListByEntity method
func (m *MockAuditLogRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error) {
	args := m.Called(ctx, entityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AuditLog), args.Error(1)
}

// CountByEntity mocks the CountByEntity method
func (m *MockAuditLogRepository) CountByEntity(ctx context.Context, entityID uuid.UUID) (int64, error) {
	args := m.Called(ctx, entityID)
	return args.Get(0).(int64), args.Error(1)
}

package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/anchorpay/settlement-processor/internal/domain/port/persistence"
)

// MockUnitOfWork is a mock implementation of the persistence.UnitOfWork interface
type MockUnitOfWork struct {
	mock.Mock
}

// Begin mocks the Begin method
func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return ctx, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

// Commit mocks the Commit method
func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Rollback mocks the Rollback method
func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetTransactionRepository mocks the GetTransactionRepository method
func (m *MockUnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.TransactionRepository)
}

// GetDlqRepository mocks the GetDlqRepository method
func (m *MockUnitOfWork) GetDlqRepository(ctx context.Context) persistence.DlqRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.DlqRepository)
}

// GetAuditLogRepository mocks the GetAuditLogRepository method
func (m *MockUnitOfWork) GetAuditLogRepository(ctx context.Context) persistence.AuditLogRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.AuditLogRepository)
}

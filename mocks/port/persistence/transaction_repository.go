package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// MockTransactionRepository is a mock implementation of the
// persistence.TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

// Insert mocks the Insert method
func (m *MockTransactionRepository) Insert(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

// UpdateStatus mocks the UpdateStatus method
func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TransactionStatus) (*entity.Transaction, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// AssignSettlement mocks the AssignSettlement method
func (m *MockTransactionRepository) AssignSettlement(ctx context.Context, id uuid.UUID, settlementID uuid.UUID) (*entity.Transaction, error) {
	args := m.Called(ctx, id, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// Get mocks the Get method
func (m *MockTransactionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// List mocks the List method
func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

// ListByStatus mocks the ListByStatus method
func (m *MockTransactionRepository) ListByStatus(ctx context.Context, status entity.TransactionStatus, limit int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

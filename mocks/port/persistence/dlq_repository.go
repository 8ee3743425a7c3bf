package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// MockDlqRepository is a mock implementation of the persistence.DlqRepository interface
type MockDlqRepository struct {
	mock.Mock
}

// Insert mocks the Insert method
func (m *MockDlqRepository) Insert(ctx context.Context, entry *entity.DlqEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Get mocks the Get method
func (m *MockDlqRepository) Get(ctx context.Context, id uuid.UUID) (*entity.DlqEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DlqEntry), args.Error(1)
}

// List mocks the List method
func (m *MockDlqRepository) List(ctx context.Context, limit, offset int) ([]*entity.DlqEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DlqEntry), args.Error(1)
}

// Count mocks the Count method
func (m *MockDlqRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Remove mocks the Remove method
func (m *MockDlqRepository) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

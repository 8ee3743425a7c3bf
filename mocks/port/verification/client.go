package verification

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of the verification.Client interface
type MockClient struct {
	mock.Mock
}

// Verify mocks the Verify method
func (m *MockClient) Verify(ctx context.Context, anchorTransactionID string) error {
	args := m.Called(ctx, anchorTransactionID)
	return args.Error(0)
}

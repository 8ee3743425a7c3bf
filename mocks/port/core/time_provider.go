package core

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTimeProvider is a mock implementation of the core.TimeProvider interface
type MockTimeProvider struct {
	mock.Mock
}

// Now mocks the Now method
func (m *MockTimeProvider) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// Since mocks the Since method
func (m *MockTimeProvider) Since(t time.Time) time.Duration {
	args := m.Called(t)
	return args.Get(0).(time.Duration)
}

// Sleep mocks the Sleep method
func (m *MockTimeProvider) Sleep(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// WithTimeout mocks the WithTimeout method
func (m *MockTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	args := m.Called(ctx, timeout)
	return args.Get(0).(context.Context), args.Get(1).(context.CancelFunc)
}

// NewInstantTimeProvider returns a MockTimeProvider with a fixed clock and
// zero-cost sleeps so retry/backoff tests run instantly
func NewInstantTimeProvider(now time.Time) *MockTimeProvider {
	tp := new(MockTimeProvider)
	tp.On("Now").Return(now).Maybe()
	tp.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()
	tp.On("Sleep", mock.Anything, mock.Anything).Return(nil).Maybe()
	return tp
}

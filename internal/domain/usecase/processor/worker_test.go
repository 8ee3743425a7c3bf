package processor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	mcore "github.com/anchorpay/settlement-processor/mocks/port/core"
)

func TestPendingWorkerProcessesBatch(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-400")

	var sweeps atomic.Int32
	f.txRepo.On("ListByStatus", mock.Anything, entity.StatusPending, 5).
		Run(func(mock.Arguments) { sweeps.Add(1) }).
		Return([]*entity.Transaction{tx}, nil).Once()
	f.txRepo.On("ListByStatus", mock.Anything, entity.StatusPending, 5).
		Return([]*entity.Transaction{}, nil).Maybe()

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusCompleted).Return(tx, nil)
	f.verifier.On("Verify", mock.Anything, "anchor-400").Return(nil).Once()

	worker := NewPendingWorker(f.service, 10*time.Millisecond, 5, mcore.NewRelaxedLogger())
	worker.Start(context.Background())

	require.Eventually(t, func() bool {
		return sweeps.Load() >= 1 && tx.Status == entity.StatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	worker.Stop()
	f.verifier.AssertExpectations(t)
}

func TestPendingWorkerStopTerminatesLoop(t *testing.T) {
	f := newFixture(t, testConfig())

	f.txRepo.On("ListByStatus", mock.Anything, entity.StatusPending, 5).
		Return([]*entity.Transaction{}, nil).Maybe()

	worker := NewPendingWorker(f.service, time.Millisecond, 5, mcore.NewRelaxedLogger())
	worker.Start(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestPendingWorkerStopIsIdempotent(t *testing.T) {
	f := newFixture(t, testConfig())

	f.txRepo.On("ListByStatus", mock.Anything, entity.StatusPending, 5).
		Return([]*entity.Transaction{}, nil).Maybe()

	worker := NewPendingWorker(f.service, time.Millisecond, 5, mcore.NewRelaxedLogger())
	worker.Start(context.Background())

	assert.NotPanics(t, func() {
		worker.Stop()
		worker.Stop()
	})
}

func TestPendingWorkerContextCancelTerminatesLoop(t *testing.T) {
	f := newFixture(t, testConfig())

	f.txRepo.On("ListByStatus", mock.Anything, entity.StatusPending, 5).
		Return([]*entity.Transaction{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	worker := NewPendingWorker(f.service, time.Millisecond, 5, mcore.NewRelaxedLogger())
	worker.Start(ctx)

	cancel()

	select {
	case <-worker.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit on context cancellation")
	}
}

func TestPendingWorkerSkipsBusyTransactions(t *testing.T) {
	f := newFixture(t, Config{MaxRetries: 3, BaseDelay: time.Millisecond, LockTimeout: 5 * time.Millisecond})
	tx := pendingTransaction("anchor-401")

	var sweeps atomic.Int32
	f.txRepo.On("ListByStatus", mock.Anything, entity.StatusPending, 5).
		Run(func(mock.Arguments) { sweeps.Add(1) }).
		Return([]*entity.Transaction{tx}, nil)

	// Hold the guard so every sweep hits the busy path
	require.NoError(t, f.service.guard.Acquire(context.Background(), tx.ID, time.Second))
	defer f.service.guard.Release(tx.ID)

	worker := NewPendingWorker(f.service, 5*time.Millisecond, 5, mcore.NewRelaxedLogger())
	worker.Start(context.Background())

	require.Eventually(t, func() bool {
		return sweeps.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	worker.Stop()

	// The busy transaction was never fetched, let alone processed
	f.txRepo.AssertNotCalled(t, "Get", mock.Anything, tx.ID)
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

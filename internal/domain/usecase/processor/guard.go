package processor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
)

// Guard provides per-transaction mutual exclusion: at most one in-flight
// processing attempt per transaction id. Waiters queue behind the holder in
// FIFO order (runtime channel receivers are served in arrival order) and
// give up with ErrTransactionBusy when the wait exceeds the caller's
// timeout. Guard state is purely in-process; cross-process exclusion is the
// database transaction's job.
type Guard struct {
	mu     sync.Mutex
	locks  map[uuid.UUID]*guardLock
	logger coreport.Logger
}

type guardLock struct {
	token chan struct{}
	refs  int
}

// NewGuard creates a new per-transaction guard
func NewGuard(logger coreport.Logger) *Guard {
	return &Guard{
		locks:  make(map[uuid.UUID]*guardLock),
		logger: logger,
	}
}

// Acquire takes the guard for the given transaction id, waiting up to
// timeout behind the current holder. Returns ErrTransactionBusy on timeout
// and the context error when the caller is canceled while queued.
func (g *Guard) Acquire(ctx context.Context, id uuid.UUID, timeout time.Duration) error {
	g.mu.Lock()
	lock, ok := g.locks[id]
	if !ok {
		lock = &guardLock{token: make(chan struct{}, 1)}
		lock.token <- struct{}{}
		g.locks[id] = lock
	}
	lock.refs++
	g.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-lock.token:
		return nil
	case <-ctx.Done():
		g.drop(id)
		return ctx.Err()
	case <-timer.C:
		g.logger.Warn("Guard wait timed out", map[string]any{
			"transaction_id": id.String(),
			"timeout_ms":     timeout.Milliseconds(),
		})
		g.drop(id)
		return errs.ErrTransactionBusy
	}
}

// Release returns the guard for the given transaction id. Must be called on
// every exit path of a successful Acquire, or the id becomes permanently
// unprocessable.
func (g *Guard) Release(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[id]
	if !ok {
		g.logger.Error("Release of unheld guard", map[string]any{
			"transaction_id": id.String(),
		})
		return
	}

	lock.token <- struct{}{}
	lock.refs--
	if lock.refs == 0 {
		delete(g.locks, id)
	}
}

// drop abandons a queued waiter without touching the token
func (g *Guard) drop(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[id]
	if !ok {
		return
	}
	lock.refs--
	if lock.refs == 0 {
		delete(g.locks, id)
	}
}

package processor

import (
	"context"
	"sync"
	"time"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
)

// PendingWorker periodically sweeps pending transactions through the
// processor so settlements make progress without an external trigger.
// Quarantine outcomes are expected and logged, not treated as worker
// failures.
type PendingWorker struct {
	service   *Service
	interval  time.Duration
	batchSize int
	logger    coreport.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPendingWorker creates a worker that polls every interval and processes
// up to batchSize pending transactions per sweep
func NewPendingWorker(service *Service, interval time.Duration, batchSize int, logger coreport.Logger) *PendingWorker {
	return &PendingWorker{
		service:   service,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the polling loop. It returns immediately; call Stop to
// shut the worker down.
func (w *PendingWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info("Pending transaction worker started", map[string]any{
			"interval_ms": w.interval.Milliseconds(),
			"batch_size":  w.batchSize,
		})

		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-ctx.Done():
				w.logger.Info("Pending transaction worker stopped by context", nil)
				return
			case <-w.stop:
				w.logger.Info("Pending transaction worker stopped", nil)
				return
			}
		}
	}()
}

// Stop terminates the polling loop and waits for the in-flight sweep to finish
func (w *PendingWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	<-w.done
}

// sweep processes one batch of pending transactions sequentially. Per-id
// guard exclusion makes concurrent sweeps safe, but sequential processing
// keeps the worker from starving API callers of pool connections.
func (w *PendingWorker) sweep(ctx context.Context) {
	pending, err := w.service.uow.GetTransactionRepository(ctx).ListByStatus(ctx, entity.StatusPending, w.batchSize)
	if err != nil {
		w.logger.Error("Failed to load pending transactions", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if len(pending) == 0 {
		return
	}

	w.logger.Debug("Sweeping pending transactions", map[string]any{
		"count": len(pending),
	})

	for _, tx := range pending {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		// Quarantine outcomes live inside the result and are logged by the
		// processor itself.
		if _, err := w.service.ProcessTransaction(ctx, tx.ID); err != nil {
			if errs.IsBusyError(err) {
				w.logger.Debug("Transaction busy, skipping in this sweep", map[string]any{
					"transaction_id": tx.ID.String(),
				})
				continue
			}
			w.logger.Error("Sweep processing failed", map[string]any{
				"transaction_id": tx.ID.String(),
				"error":          err.Error(),
			})
		}
	}
}

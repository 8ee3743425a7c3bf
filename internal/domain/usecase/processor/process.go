package processor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
)

// ProcessResult is the structured outcome of one processing call. Quarantine
// is a normal, expected terminal outcome and is reported here rather than as
// an error; callers only see errors for not-found, busy, cancellation and
// aborted scopes.
type ProcessResult struct {
	TransactionID    uuid.UUID
	Status           entity.TransactionStatus
	AlreadyCompleted bool
	Quarantined      bool
	DlqEntryID       *uuid.UUID
	RetryCount       int
	ErrorReason      string
}

// ProcessTransaction drives one transaction through the verification state
// machine: Pending -> Processing -> Completed, or quarantine to the DLQ when
// verification fails permanently or retries are exhausted.
func (s *Service) ProcessTransaction(ctx context.Context, id uuid.UUID) (*ProcessResult, error) {
	if err := s.guard.Acquire(ctx, id, s.cfg.LockTimeout); err != nil {
		return nil, err
	}
	// Released on every exit path, including failed persistence; a leaked
	// guard makes the id permanently unprocessable.
	defer s.guard.Release(id)

	tx, err := s.uow.GetTransactionRepository(ctx).Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Status == entity.StatusCompleted {
		// Reprocessing a terminal transaction is an idempotent no-op: no
		// verification call, no new audit entries.
		s.logger.Debug("Transaction already completed, skipping", map[string]any{
			"transaction_id": id.String(),
		})
		return &ProcessResult{
			TransactionID:    id,
			Status:           entity.StatusCompleted,
			AlreadyCompleted: true,
		}, nil
	}

	if tx.Status == entity.StatusProcessing {
		// Left in processing by a cancellation or crash between the status
		// commit and the verification outcome. Resume at verification; the
		// pending->processing entry was already written.
		s.logger.Info("Resuming transaction left in processing", map[string]any{
			"transaction_id": id.String(),
		})
	} else if err := s.markProcessing(ctx, tx); err != nil {
		return nil, err
	}

	verifyErr := s.verifyWithRetry(ctx, tx)
	retryCount := verifyErr.retryCount

	if verifyErr.err == nil {
		if err := s.complete(ctx, tx); err != nil {
			return nil, err
		}
		s.logger.Info("Transaction completed", map[string]any{
			"transaction_id": id.String(),
			"retries":        retryCount,
		})
		return &ProcessResult{
			TransactionID: id,
			Status:        entity.StatusCompleted,
			RetryCount:    retryCount,
		}, nil
	}

	if verifyErr.canceled {
		return nil, verifyErr.err
	}

	entry, err := s.moveToDlq(ctx, tx, verifyErr.err, retryCount, verifyErr.lastRetryAt)
	if err != nil {
		return nil, err
	}

	s.logger.Warn("Transaction quarantined", map[string]any{
		"transaction_id": id.String(),
		"dlq_entry_id":   entry.ID.String(),
		"retries":        retryCount,
		"error_reason":   entry.ErrorReason,
	})
	return &ProcessResult{
		TransactionID: id,
		Status:        entity.StatusDlq,
		Quarantined:   true,
		DlqEntryID:    &entry.ID,
		RetryCount:    retryCount,
		ErrorReason:   entry.ErrorReason,
	}, nil
}

// verifyOutcome carries the terminal state of the retry loop
type verifyOutcome struct {
	err         error
	retryCount  int
	lastRetryAt *time.Time
	canceled    bool
}

// verifyWithRetry invokes the verification client, retrying transient
// failures with exponential backoff (BaseDelay * 2^n) up to MaxRetries.
// The backoff sleep holds no pooled resource and honors ctx cancellation;
// retries themselves are not audited.
func (s *Service) verifyWithRetry(ctx context.Context, tx *entity.Transaction) verifyOutcome {
	outcome := verifyOutcome{}

	for {
		outcome.err = s.verify(ctx, tx)
		if outcome.err == nil {
			return outcome
		}

		if classifyFailure(outcome.err) != classTransient || outcome.retryCount >= s.cfg.MaxRetries {
			return outcome
		}

		delay := s.backoffDelay(outcome.retryCount)
		s.logger.Warn("Transient verification failure, retrying", map[string]any{
			"transaction_id": tx.ID.String(),
			"retry":          outcome.retryCount + 1,
			"max_retries":    s.cfg.MaxRetries,
			"delay_ms":       delay.Milliseconds(),
			"error":          outcome.err.Error(),
		})

		if err := s.timeProvider.Sleep(ctx, delay); err != nil {
			// Canceled during backoff; the transaction stays in processing
			// until the next attempt picks it up.
			outcome.err = err
			outcome.canceled = true
			return outcome
		}

		outcome.retryCount++
		now := s.timeProvider.Now()
		outcome.lastRetryAt = &now
	}
}

// verify runs a single verification round against the external ledger
func (s *Service) verify(ctx context.Context, tx *entity.Transaction) error {
	if tx.AnchorTransactionID == nil || *tx.AnchorTransactionID == "" {
		return errs.NewPermanentVerificationError("", "transaction has no anchor transaction id", errs.ErrMissingAnchorTransaction)
	}
	return s.verifier.Verify(ctx, *tx.AnchorTransactionID)
}

// markProcessing persists the transition into processing, audited in the
// same scope, actor "system"
func (s *Service) markProcessing(ctx context.Context, tx *entity.Transaction) error {
	oldStatus := tx.Status
	if err := tx.TransitionTo(entity.StatusProcessing, s.timeProvider); err != nil {
		return err
	}

	return s.withinScope(ctx, "start_processing", func(scopeCtx context.Context) error {
		if _, err := s.uow.GetTransactionRepository(scopeCtx).UpdateStatus(scopeCtx, tx.ID, entity.StatusProcessing); err != nil {
			return err
		}
		_, err := s.recorder.LogStatusChange(scopeCtx, tx.ID, entity.EntityTypeTransaction,
			string(oldStatus), string(entity.StatusProcessing), entity.ActorSystem)
		return err
	})
}

// complete persists the terminal success state, audited in the same scope
func (s *Service) complete(ctx context.Context, tx *entity.Transaction) error {
	oldStatus := tx.Status
	if err := tx.TransitionTo(entity.StatusCompleted, s.timeProvider); err != nil {
		return err
	}

	return s.withinScope(ctx, "complete_transaction", func(scopeCtx context.Context) error {
		if _, err := s.uow.GetTransactionRepository(scopeCtx).UpdateStatus(scopeCtx, tx.ID, entity.StatusCompleted); err != nil {
			return err
		}
		_, err := s.recorder.LogStatusChange(scopeCtx, tx.ID, entity.EntityTypeTransaction,
			string(oldStatus), string(entity.StatusCompleted), entity.ActorSystem)
		return err
	})
}

// moveToDlq quarantines the transaction: DLQ snapshot insert, status change
// to dlq and the moved_to_dlq audit entry all commit or abort together.
func (s *Service) moveToDlq(
	ctx context.Context,
	tx *entity.Transaction,
	cause error,
	retryCount int,
	lastRetryAt *time.Time,
) (*entity.DlqEntry, error) {
	oldStatus := tx.Status
	if err := tx.TransitionTo(entity.StatusDlq, s.timeProvider); err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("%s: %s", classifyFailure(cause), cause.Error())
	stackTrace := string(debug.Stack())
	entry := entity.NewDlqEntry(tx, reason, &stackTrace, retryCount, lastRetryAt, s.timeProvider.Now())

	err := s.withinScope(ctx, "move_to_dlq", func(scopeCtx context.Context) error {
		if err := s.uow.GetDlqRepository(scopeCtx).Insert(scopeCtx, entry); err != nil {
			return err
		}
		if _, err := s.uow.GetTransactionRepository(scopeCtx).UpdateStatus(scopeCtx, tx.ID, entity.StatusDlq); err != nil {
			return err
		}
		oldVal := entity.StatusValue(string(oldStatus))
		newVal := entity.StatusValue(string(entity.StatusDlq))
		_, err := s.recorder.Record(scopeCtx, tx.ID, entity.EntityTypeTransaction,
			entity.ActionMovedToDlq, &oldVal, &newVal, entity.ActorSystem)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

package processor

import (
	"context"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// RequeueResult reports a successful requeue
type RequeueResult struct {
	DlqEntryID    uuid.UUID
	TransactionID uuid.UUID
}

// RequeueDlq returns a quarantined transaction to the active pipeline. The
// status reset to pending, the DLQ entry removal and the requeued audit
// entry execute in one atomic scope, so a crash can never leave the
// transaction simultaneously active and quarantined, nor orphaned in
// neither state. The transaction is not resubmitted automatically; it
// becomes eligible for a future processing call.
func (s *Service) RequeueDlq(ctx context.Context, dlqID uuid.UUID, actor string) (*RequeueResult, error) {
	entry, err := s.uow.GetDlqRepository(ctx).Get(ctx, dlqID)
	if err != nil {
		return nil, err
	}

	err = s.withinScope(ctx, "requeue_dlq", func(scopeCtx context.Context) error {
		txRepo := s.uow.GetTransactionRepository(scopeCtx)

		tx, err := txRepo.Get(scopeCtx, entry.TransactionID)
		if err != nil {
			return err
		}
		if err := tx.TransitionTo(entity.StatusPending, s.timeProvider); err != nil {
			return err
		}

		if _, err := txRepo.UpdateStatus(scopeCtx, entry.TransactionID, entity.StatusPending); err != nil {
			return err
		}
		if err := s.uow.GetDlqRepository(scopeCtx).Remove(scopeCtx, dlqID); err != nil {
			return err
		}

		oldVal := entity.StatusValue(string(entity.StatusDlq))
		newVal := entity.StatusValue(string(entity.StatusPending))
		_, err = s.recorder.Record(scopeCtx, entry.TransactionID, entity.EntityTypeTransaction,
			entity.ActionRequeued, &oldVal, &newVal, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("DLQ entry requeued", map[string]any{
		"dlq_entry_id":   dlqID.String(),
		"transaction_id": entry.TransactionID.String(),
		"actor":          actor,
	})
	return &RequeueResult{
		DlqEntryID:    dlqID,
		TransactionID: entry.TransactionID,
	}, nil
}

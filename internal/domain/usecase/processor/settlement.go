package processor

import (
	"context"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// AssignSettlement links a transaction to a settlement batch. The link and
// its settlement_id_update audit entry commit in one scope.
func (s *Service) AssignSettlement(ctx context.Context, txID, settlementID uuid.UUID, actor string) (*entity.Transaction, error) {
	tx, err := s.uow.GetTransactionRepository(ctx).Get(ctx, txID)
	if err != nil {
		return nil, err
	}

	oldValue := entity.NullValue()
	if tx.SettlementID != nil {
		oldValue = entity.StringValue(tx.SettlementID.String())
	}

	var updated *entity.Transaction
	err = s.withinScope(ctx, "assign_settlement", func(scopeCtx context.Context) error {
		updated, err = s.uow.GetTransactionRepository(scopeCtx).AssignSettlement(scopeCtx, txID, settlementID)
		if err != nil {
			return err
		}
		_, err = s.recorder.LogFieldUpdate(scopeCtx, txID, entity.EntityTypeTransaction,
			"settlement_id", oldValue, entity.StringValue(settlementID.String()), actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

package processor

import (
	"context"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// CreateTransactionInput carries the fields of a new settlement transaction
type CreateTransactionInput struct {
	StellarAccount      string
	Amount              string
	AssetCode           string
	AnchorTransactionID *string
}

// CreateTransaction validates and inserts a new pending transaction, writing
// its creation audit entry in the same atomic scope
func (s *Service) CreateTransaction(ctx context.Context, input CreateTransactionInput, actor string) (*entity.Transaction, error) {
	tx, err := entity.NewTransaction(
		input.StellarAccount,
		input.Amount,
		input.AssetCode,
		input.AnchorTransactionID,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	err = s.withinScope(ctx, "create_transaction", func(scopeCtx context.Context) error {
		if err := s.uow.GetTransactionRepository(scopeCtx).Insert(scopeCtx, tx); err != nil {
			return err
		}
		_, err := s.recorder.LogCreation(scopeCtx, tx.ID, entity.EntityTypeTransaction, tx.Snapshot(), actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction created", map[string]any{
		"transaction_id":  tx.ID.String(),
		"stellar_account": tx.StellarAccount,
		"asset_code":      tx.AssetCode,
	})
	return tx, nil
}

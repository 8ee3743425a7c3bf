package processor

import (
	"context"

	"github.com/google/uuid"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// DefaultPageSize bounds listing queries that pass no explicit limit
const DefaultPageSize = 50

// GetTransaction fetches one transaction by id
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return s.uow.GetTransactionRepository(ctx).Get(ctx, id)
}

// ListTransactions returns transactions ordered by creation time, newest first
func (s *Service) ListTransactions(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	limit, offset = clampPage(limit, offset)
	return s.uow.GetTransactionRepository(ctx).List(ctx, limit, offset)
}

// ListDlq returns quarantined entries ordered by moved_to_dlq_at, most recent
// first, along with the total quarantine count
func (s *Service) ListDlq(ctx context.Context, limit, offset int) ([]*entity.DlqEntry, int64, error) {
	limit, offset = clampPage(limit, offset)

	dlqRepo := s.uow.GetDlqRepository(ctx)
	entries, err := dlqRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := dlqRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > DefaultPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

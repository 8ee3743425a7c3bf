package persistence

import (
	"context"
)

// UnitOfWork coordinates multiple repository operations inside one atomic
// scope. Every "mutate business state + append audit row" pair must run in a
// single scope so either both effects become durable or neither does; the
// audit trail's evidentiary value depends on exact correspondence with
// business state, so no compensating-action fallback is acceptable.
type UnitOfWork interface {
	// Begin starts a new scope and returns a context carrying it
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the scope carried by the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the scope carried by the given context
	Rollback(ctx context.Context) error

	// GetTransactionRepository returns a transaction repository bound to the
	// scope in ctx, or an unscoped one when ctx carries no scope
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetDlqRepository returns a DLQ repository bound to the scope in ctx
	GetDlqRepository(ctx context.Context) DlqRepository

	// GetAuditLogRepository returns an audit log repository bound to the scope in ctx
	GetAuditLogRepository(ctx context.Context) AuditLogRepository
}

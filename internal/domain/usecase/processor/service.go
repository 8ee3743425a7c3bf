package processor

import (
	"context"
	"errors"
	"time"

	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/domain/port/persistence"
	"github.com/anchorpay/settlement-processor/internal/domain/port/verification"
	"github.com/anchorpay/settlement-processor/internal/domain/usecase/audit"
)

// Config holds the processor's retry and locking knobs. Values are injected
// through the constructor so tests can shrink delays without touching
// process-wide state.
type Config struct {
	// MaxRetries bounds the number of backoff retries after a transient
	// verification failure
	MaxRetries int

	// BaseDelay is the first backoff delay; each retry doubles it
	BaseDelay time.Duration

	// LockTimeout bounds how long a caller queues on the per-transaction
	// guard before giving up with a busy error
	LockTimeout time.Duration
}

// DefaultConfig returns the production processor configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		BaseDelay:   100 * time.Millisecond,
		LockTimeout: 5 * time.Second,
	}
}

// Service orchestrates the settlement transaction state machine: verification
// with bounded retry, quarantine to the DLQ, operator requeue, and the audit
// discipline wrapping every state mutation.
type Service struct {
	cfg          Config
	uow          persistence.UnitOfWork
	verifier     verification.Client
	recorder     *audit.Recorder
	guard        *Guard
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new transaction processor service
func NewService(
	cfg Config,
	uow persistence.UnitOfWork,
	verifier verification.Client,
	recorder *audit.Recorder,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		cfg:          cfg,
		uow:          uow,
		verifier:     verifier,
		recorder:     recorder,
		guard:        NewGuard(logger),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// backoffDelay returns BaseDelay * 2^retryCount
func (s *Service) backoffDelay(retryCount int) time.Duration {
	return s.cfg.BaseDelay * (1 << uint(retryCount))
}

// withinScope runs fn inside one atomic unit of work. Any failure rolls the
// scope back; unless it is a not-found condition, it surfaces as an
// operation-aborted error so callers know the whole mutation was undone.
func (s *Service) withinScope(ctx context.Context, operation string, fn func(scopeCtx context.Context) error) error {
	scopeCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return errs.NewOperationAbortedError(operation, err)
	}

	if err := fn(scopeCtx); err != nil {
		if rbErr := s.uow.Rollback(scopeCtx); rbErr != nil {
			s.logger.Error("Rollback failed", map[string]any{
				"operation": operation,
				"error":     rbErr.Error(),
			})
		}
		if errs.IsNotFoundError(err) || errors.Is(err, errs.ErrInvalidStatusTransition) {
			return err
		}
		return errs.NewOperationAbortedError(operation, err)
	}

	if err := s.uow.Commit(scopeCtx); err != nil {
		return errs.NewOperationAbortedError(operation, err)
	}
	return nil
}

package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	"github.com/anchorpay/settlement-processor/internal/domain/usecase/audit"
	mcore "github.com/anchorpay/settlement-processor/mocks/port/core"
	mpers "github.com/anchorpay/settlement-processor/mocks/port/persistence"
	mverif "github.com/anchorpay/settlement-processor/mocks/port/verification"
)

const testStellarAccount = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fixture wires a Service against mock persistence. Begin passes the caller's
// context through, matching the scope-in-context contract, and auditEntries
// collects every appended audit row in order.
type fixture struct {
	service      *Service
	uow          *mpers.MockUnitOfWork
	txRepo       *mpers.MockTransactionRepository
	dlqRepo      *mpers.MockDlqRepository
	auditRepo    *mpers.MockAuditLogRepository
	verifier     *mverif.MockClient
	timeProvider *mcore.MockTimeProvider
	auditEntries []*entity.AuditLog
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	f := &fixture{
		uow:          new(mpers.MockUnitOfWork),
		txRepo:       new(mpers.MockTransactionRepository),
		dlqRepo:      new(mpers.MockDlqRepository),
		auditRepo:    new(mpers.MockAuditLogRepository),
		verifier:     new(mverif.MockClient),
		timeProvider: mcore.NewInstantTimeProvider(testNow),
	}

	f.uow.On("Begin", mock.Anything).Return(nil, nil).Maybe()
	f.uow.On("Commit", mock.Anything).Return(nil).Maybe()
	f.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	f.uow.On("GetTransactionRepository", mock.Anything).Return(f.txRepo).Maybe()
	f.uow.On("GetDlqRepository", mock.Anything).Return(f.dlqRepo).Maybe()
	f.uow.On("GetAuditLogRepository", mock.Anything).Return(f.auditRepo).Maybe()

	f.auditRepo.On("Insert", mock.Anything, mock.AnythingOfType("*entity.AuditLog")).
		Run(func(args mock.Arguments) {
			f.auditEntries = append(f.auditEntries, args.Get(1).(*entity.AuditLog))
		}).
		Return(nil).
		Maybe()

	logger := mcore.NewRelaxedLogger()
	recorder := audit.NewRecorder(f.uow, f.timeProvider, logger)
	f.service = NewService(cfg, f.uow, f.verifier, recorder, f.timeProvider, logger)
	return f
}

func testConfig() Config {
	return Config{
		MaxRetries:  3,
		BaseDelay:   time.Millisecond,
		LockTimeout: 100 * time.Millisecond,
	}
}

func pendingTransaction(anchorID string) *entity.Transaction {
	var anchor *string
	if anchorID != "" {
		anchor = &anchorID
	}
	return &entity.Transaction{
		ID:                  uuid.New(),
		StellarAccount:      testStellarAccount,
		Amount:              decimal.RequireFromString("250.75"),
		AssetCode:           "USDC",
		Status:              entity.StatusPending,
		AnchorTransactionID: anchor,
		CreatedAt:           testNow.Add(-time.Hour),
		UpdatedAt:           testNow.Add(-time.Hour),
	}
}

func auditActions(entries []*entity.AuditLog) []string {
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	return actions
}

func TestProcessTransactionSucceedsFirstAttempt(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-100")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusCompleted).Return(tx, nil)
	f.verifier.On("Verify", mock.Anything, "anchor-100").Return(nil).Once()

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, result.Status)
	assert.Equal(t, 0, result.RetryCount)
	assert.False(t, result.Quarantined)
	assert.False(t, result.AlreadyCompleted)

	assert.Equal(t, []string{entity.ActionStatusUpdate, entity.ActionStatusUpdate}, auditActions(f.auditEntries))
	for _, e := range f.auditEntries {
		assert.Equal(t, entity.ActorSystem, e.Actor)
		assert.Equal(t, tx.ID, e.EntityID)
	}

	f.verifier.AssertExpectations(t)
	f.txRepo.AssertExpectations(t)
	f.dlqRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestProcessTransactionRetriesTransientThenSucceeds(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-101")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusCompleted).Return(tx, nil)

	transient := errs.NewTransientVerificationError("anchor-101", "anchor unavailable", errs.ErrVerificationUnavailable)
	f.verifier.On("Verify", mock.Anything, "anchor-101").Return(transient).Twice()
	f.verifier.On("Verify", mock.Anything, "anchor-101").Return(nil).Once()

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, result.Status)
	assert.Equal(t, 2, result.RetryCount)
	assert.False(t, result.Quarantined)

	// Retries are invisible to the audit trail
	assert.Equal(t, []string{entity.ActionStatusUpdate, entity.ActionStatusUpdate}, auditActions(f.auditEntries))
	f.verifier.AssertNumberOfCalls(t, "Verify", 3)
}

func TestProcessTransactionQuarantinesAfterExhaustedRetries(t *testing.T) {
	cfg := Config{
		MaxRetries:  3,
		BaseDelay:   100 * time.Millisecond,
		LockTimeout: 100 * time.Millisecond,
	}
	f := newFixture(t, cfg)
	tx := pendingTransaction("anchor-102")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusDlq).Return(tx, nil)

	transient := errs.NewTransientVerificationError("anchor-102", "anchor unavailable", errs.ErrVerificationUnavailable)
	f.verifier.On("Verify", mock.Anything, "anchor-102").Return(transient)

	// Override the relaxed sleep with explicit backoff expectations
	f.timeProvider.ExpectedCalls = nil
	f.timeProvider.On("Now").Return(testNow)
	f.timeProvider.On("Sleep", mock.Anything, 100*time.Millisecond).Return(nil).Once()
	f.timeProvider.On("Sleep", mock.Anything, 200*time.Millisecond).Return(nil).Once()
	f.timeProvider.On("Sleep", mock.Anything, 400*time.Millisecond).Return(nil).Once()

	var inserted *entity.DlqEntry
	f.dlqRepo.On("Insert", mock.Anything, mock.AnythingOfType("*entity.DlqEntry")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*entity.DlqEntry)
		}).
		Return(nil)

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.True(t, result.Quarantined)
	assert.Equal(t, entity.StatusDlq, result.Status)
	assert.Equal(t, 3, result.RetryCount)
	assert.Contains(t, result.ErrorReason, "transient")
	require.NotNil(t, result.DlqEntryID)

	// Initial attempt plus three retries
	f.verifier.AssertNumberOfCalls(t, "Verify", 4)
	f.timeProvider.AssertExpectations(t)

	require.NotNil(t, inserted)
	assert.Equal(t, tx.ID, inserted.TransactionID)
	assert.Equal(t, 3, inserted.RetryCount)
	assert.Equal(t, testStellarAccount, inserted.StellarAccount)
	assert.NotNil(t, inserted.StackTrace)
	assert.NotNil(t, inserted.LastRetryAt)

	assert.Equal(t, []string{entity.ActionStatusUpdate, entity.ActionMovedToDlq}, auditActions(f.auditEntries))
}

func TestProcessTransactionQuarantinesPermanentFailureImmediately(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-103")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusDlq).Return(tx, nil)
	f.dlqRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	permanent := errs.NewPermanentVerificationError("anchor-103", "rejected by anchor", errs.ErrVerificationRejected)
	f.verifier.On("Verify", mock.Anything, "anchor-103").Return(permanent).Once()

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.True(t, result.Quarantined)
	assert.Equal(t, 0, result.RetryCount)
	assert.Contains(t, result.ErrorReason, "permanent")

	// No retries for permanent failures
	f.verifier.AssertNumberOfCalls(t, "Verify", 1)
	assert.Equal(t, []string{entity.ActionStatusUpdate, entity.ActionMovedToDlq}, auditActions(f.auditEntries))
}

func TestProcessTransactionMissingAnchorIDQuarantines(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusDlq).Return(tx, nil)
	f.dlqRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.True(t, result.Quarantined)
	assert.Contains(t, result.ErrorReason, "anchor transaction id")

	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestProcessTransactionCompletedIsIdempotentNoOp(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-104")
	tx.Status = entity.StatusCompleted

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.True(t, result.AlreadyCompleted)
	assert.Equal(t, entity.StatusCompleted, result.Status)

	// No verification call, no status writes, no new audit entries
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	f.txRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.auditEntries)
}

func TestProcessTransactionNotFound(t *testing.T) {
	f := newFixture(t, testConfig())
	id := uuid.New()

	f.txRepo.On("Get", mock.Anything, id).Return(nil, errs.ErrTransactionNotFound)

	result, err := f.service.ProcessTransaction(context.Background(), id)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
}

func TestProcessTransactionBusy(t *testing.T) {
	f := newFixture(t, testConfig())
	id := uuid.New()

	require.NoError(t, f.service.guard.Acquire(context.Background(), id, time.Second))
	defer f.service.guard.Release(id)

	result, err := f.service.ProcessTransaction(context.Background(), id)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrTransactionBusy)
	f.txRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestProcessTransactionGuardReleasedAfterFailure(t *testing.T) {
	f := newFixture(t, testConfig())
	id := uuid.New()

	f.txRepo.On("Get", mock.Anything, id).Return(nil, errs.ErrTransactionNotFound)

	_, err := f.service.ProcessTransaction(context.Background(), id)
	require.ErrorIs(t, err, errs.ErrTransactionNotFound)

	// A failed run must not leave the id locked
	require.NoError(t, f.service.guard.Acquire(context.Background(), id, 50*time.Millisecond))
	f.service.guard.Release(id)
}

func TestProcessTransactionAuditFailureAbortsScope(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-105")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)

	f.auditRepo.ExpectedCalls = nil
	f.auditRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	assert.Nil(t, result)
	assert.True(t, errs.IsOperationAborted(err))
	assert.ErrorIs(t, err, errs.ErrAuditWriteFailed)

	// The scope rolled back and verification never started
	f.uow.AssertCalled(t, "Rollback", mock.Anything)
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestProcessTransactionCanceledDuringBackoff(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-106")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)

	transient := errs.NewTransientVerificationError("anchor-106", "anchor unavailable", errs.ErrVerificationUnavailable)
	f.verifier.On("Verify", mock.Anything, "anchor-106").Return(transient).Once()

	f.timeProvider.ExpectedCalls = nil
	f.timeProvider.On("Now").Return(testNow)
	f.timeProvider.On("Sleep", mock.Anything, mock.Anything).Return(context.Canceled).Once()

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)

	// No quarantine on cancellation; the transaction stays in processing
	f.dlqRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	f.txRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, tx.ID, entity.StatusDlq)
}

func TestProcessTransactionDlqInsertFailureAborts(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-107")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing).Return(tx, nil)
	f.dlqRepo.On("Insert", mock.Anything, mock.Anything).Return(errs.ErrDatabaseConnection)

	permanent := errs.NewPermanentVerificationError("anchor-107", "rejected", errs.ErrVerificationRejected)
	f.verifier.On("Verify", mock.Anything, "anchor-107").Return(permanent).Once()

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	assert.Nil(t, result)
	assert.True(t, errs.IsOperationAborted(err))
	f.uow.AssertCalled(t, "Rollback", mock.Anything)
}

func TestProcessTransactionResumesStuckProcessing(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-108")
	tx.Status = entity.StatusProcessing

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusCompleted).Return(tx, nil)
	f.verifier.On("Verify", mock.Anything, "anchor-108").Return(nil).Once()

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, result.Status)

	// The pending->processing entry was written before the interruption;
	// resuming must not repeat it
	f.txRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, tx.ID, entity.StatusProcessing)
	assert.Equal(t, []string{entity.ActionStatusUpdate}, auditActions(f.auditEntries))
}

func TestProcessTransactionStuckProcessingCanStillQuarantine(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-109")
	tx.Status = entity.StatusProcessing

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("UpdateStatus", mock.Anything, tx.ID, entity.StatusDlq).Return(tx, nil)
	f.dlqRepo.On("Insert", mock.Anything, mock.AnythingOfType("*entity.DlqEntry")).Return(nil)

	permanent := errs.NewPermanentVerificationError("anchor-109", "rejected on ledger", errs.ErrVerificationRejected)
	f.verifier.On("Verify", mock.Anything, "anchor-109").Return(permanent).Once()

	result, err := f.service.ProcessTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.True(t, result.Quarantined)
	assert.Equal(t, []string{entity.ActionMovedToDlq}, auditActions(f.auditEntries))
}

package processor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.BaseDelay)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
}

func TestCreateTransaction(t *testing.T) {
	f := newFixture(t, testConfig())

	anchorID := "anchor-300"
	f.txRepo.On("Insert", mock.Anything, mock.AnythingOfType("*entity.Transaction")).Return(nil)

	tx, err := f.service.CreateTransaction(context.Background(), CreateTransactionInput{
		StellarAccount:      testStellarAccount,
		Amount:              "1500.25",
		AssetCode:           "USDC",
		AnchorTransactionID: &anchorID,
	}, "api")

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, tx.Status)
	assert.Equal(t, "1500.25", tx.Amount.String())

	require.Len(t, f.auditEntries, 1)
	logged := f.auditEntries[0]
	assert.Equal(t, entity.ActionCreated, logged.Action)
	assert.Equal(t, tx.ID, logged.EntityID)
	assert.Equal(t, "api", logged.Actor)
	assert.Nil(t, logged.OldVal)
	assert.NotNil(t, logged.NewVal)

	f.uow.AssertCalled(t, "Commit", mock.Anything)
}

func TestCreateTransactionValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			name: "short stellar account",
			input: CreateTransactionInput{
				StellarAccount: "GSHORT",
				Amount:         "100",
				AssetCode:      "USDC",
			},
			wantErr: errs.ErrInvalidStellarAccount,
		},
		{
			name: "negative amount",
			input: CreateTransactionInput{
				StellarAccount: testStellarAccount,
				Amount:         "-5",
				AssetCode:      "USDC",
			},
			wantErr: errs.ErrInvalidAmount,
		},
		{
			name: "zero amount",
			input: CreateTransactionInput{
				StellarAccount: testStellarAccount,
				Amount:         "0",
				AssetCode:      "USDC",
			},
			wantErr: errs.ErrInvalidAmount,
		},
		{
			name: "asset code too long",
			input: CreateTransactionInput{
				StellarAccount: testStellarAccount,
				Amount:         "100",
				AssetCode:      "TOOLONGASSETCODE",
			},
			wantErr: errs.ErrInvalidAssetCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testConfig())

			tx, err := f.service.CreateTransaction(context.Background(), tt.input, "api")

			assert.Nil(t, tx)
			assert.ErrorIs(t, err, tt.wantErr)
			// Nothing persisted for invalid input
			f.txRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			f.uow.AssertNotCalled(t, "Begin", mock.Anything)
		})
	}
}

func TestAssignSettlement(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-301")
	settlementID := uuid.New()

	updated := *tx
	updated.SettlementID = &settlementID

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)
	f.txRepo.On("AssignSettlement", mock.Anything, tx.ID, settlementID).Return(&updated, nil)

	got, err := f.service.AssignSettlement(context.Background(), tx.ID, settlementID, "ops")

	require.NoError(t, err)
	require.NotNil(t, got.SettlementID)
	assert.Equal(t, settlementID, *got.SettlementID)

	require.Len(t, f.auditEntries, 1)
	logged := f.auditEntries[0]
	assert.Equal(t, "settlement_id_update", logged.Action)
	assert.Equal(t, "ops", logged.Actor)
}

func TestAssignSettlementTransactionNotFound(t *testing.T) {
	f := newFixture(t, testConfig())
	id := uuid.New()

	f.txRepo.On("Get", mock.Anything, id).Return(nil, errs.ErrTransactionNotFound)

	got, err := f.service.AssignSettlement(context.Background(), id, uuid.New(), "ops")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
}

func TestGetTransaction(t *testing.T) {
	f := newFixture(t, testConfig())
	tx := pendingTransaction("anchor-302")

	f.txRepo.On("Get", mock.Anything, tx.ID).Return(tx, nil)

	got, err := f.service.GetTransaction(context.Background(), tx.ID)

	require.NoError(t, err)
	assert.Equal(t, tx, got)
}

func TestListTransactionsClampsPagination(t *testing.T) {
	f := newFixture(t, testConfig())

	f.txRepo.On("List", mock.Anything, DefaultPageSize, 0).Return([]*entity.Transaction{}, nil)

	_, err := f.service.ListTransactions(context.Background(), 10_000, -7)

	require.NoError(t, err)
	f.txRepo.AssertExpectations(t)
}

func TestListDlq(t *testing.T) {
	f := newFixture(t, testConfig())
	tx, entry := quarantinedPair()
	_ = tx

	f.dlqRepo.On("List", mock.Anything, 10, 0).Return([]*entity.DlqEntry{entry}, nil)
	f.dlqRepo.On("Count", mock.Anything).Return(int64(14), nil)

	entries, count, err := f.service.ListDlq(context.Background(), 10, 0)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, int64(14), count)
}

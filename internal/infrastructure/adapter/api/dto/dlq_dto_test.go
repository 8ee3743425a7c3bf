package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

func TestDlqListResponseWireKeys(t *testing.T) {
	entry := &entity.DlqEntry{
		ID:             uuid.New(),
		TransactionID:  uuid.New(),
		StellarAccount: "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7",
		Amount:         decimal.RequireFromString("12.50"),
		AssetCode:      "USDC",
		ErrorReason:    "permanent: rejected on ledger",
		RetryCount:     3,
		MovedToDlqAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(DlqListResponse{
		DlqEntries: []DlqEntryResponse{ToDlqEntryResponse(entry)},
		Count:      1,
		Limit:      50,
	})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded, "dlq_entries")
	assert.Contains(t, decoded, "count")
}

func TestRequeueResponseWireKeys(t *testing.T) {
	body, err := json.Marshal(RequeueResponse{
		Message:       "transaction requeued",
		DlqID:         uuid.New().String(),
		TransactionID: uuid.New().String(),
	})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded, "message")
	assert.Contains(t, decoded, "dlq_id")
}

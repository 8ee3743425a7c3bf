package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	mocklogger "github.com/anchorpay/settlement-processor/mocks/port/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HorizonClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHorizonClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, mocklogger.NewRelaxedLogger())
	require.NoError(t, err)
	return client, server
}

func TestNewHorizonClientRequiresBaseURL(t *testing.T) {
	_, err := NewHorizonClient(Config{BaseURL: "  "}, mocklogger.NewRelaxedLogger())
	assert.Error(t, err)
}

func TestVerifySuccessfulTransaction(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/anchor-tx-1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"anchor-tx-1","successful":true}`))
	})

	err := client.Verify(context.Background(), "anchor-tx-1")
	assert.NoError(t, err)
}

func TestVerifyFailedTransactionIsPermanent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"anchor-tx-2","successful":false,"result_code":"tx_failed"}`))
	})

	err := client.Verify(context.Background(), "anchor-tx-2")
	require.Error(t, err)
	assert.True(t, errs.IsPermanentVerificationError(err))
	assert.Contains(t, err.Error(), "tx_failed")
}

func TestVerifyNotFoundIsPermanent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Resource Missing","detail":"transaction not found"}`, http.StatusNotFound)
	})

	err := client.Verify(context.Background(), "missing-tx")
	require.Error(t, err)
	assert.True(t, errs.IsPermanentVerificationError(err))
	assert.ErrorIs(t, err, errs.ErrVerificationRejected)
}

func TestVerifyServerErrorIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"database unavailable"}`, http.StatusInternalServerError)
	})

	err := client.Verify(context.Background(), "anchor-tx-3")
	require.Error(t, err)
	assert.True(t, errs.IsTransientVerificationError(err))
	assert.ErrorIs(t, err, errs.ErrVerificationUnavailable)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestVerifyRateLimitIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := client.Verify(context.Background(), "anchor-tx-4")
	require.Error(t, err)
	assert.True(t, errs.IsTransientVerificationError(err))
}

func TestVerifyConnectionFailureIsTransient(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	err := client.Verify(context.Background(), "anchor-tx-5")
	require.Error(t, err)
	assert.True(t, errs.IsTransientVerificationError(err))
}

func TestVerifyMalformedResponseIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	err := client.Verify(context.Background(), "anchor-tx-6")
	require.Error(t, err)
	assert.True(t, errs.IsTransientVerificationError(err))
}

func TestVerifyCanceledContextReturnsCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Verify(ctx, "anchor-tx-7")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errs.IsTransientVerificationError(err))
}

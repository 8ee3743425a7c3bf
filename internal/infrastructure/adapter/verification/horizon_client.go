package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	verificationport "github.com/anchorpay/settlement-processor/internal/domain/port/verification"
)

// Config holds the settings for the anchor verification endpoint
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HorizonClient verifies anchor transactions against a Horizon-style HTTP API.
// Failures are classified so the caller can decide between retrying and
// quarantining: network and server-side errors are transient, rejections and
// unknown transactions are permanent.
type HorizonClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  coreport.Logger
}

type transactionStatusResponse struct {
	ID         string `json:"id"`
	Successful bool   `json:"successful"`
	ResultCode string `json:"result_code"`
}

type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NewHorizonClient creates a verification client against the configured endpoint
func NewHorizonClient(config Config, logger coreport.Logger) (*HorizonClient, error) {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		return nil, errors.New("verification base URL is empty")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HorizonClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  config.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

var _ verificationport.Client = (*HorizonClient)(nil)

// Verify checks that the anchor transaction exists and settled successfully
func (c *HorizonClient) Verify(ctx context.Context, anchorTransactionID string) error {
	endpoint := c.baseURL + "/transactions/" + url.PathEscape(anchorTransactionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.NewPermanentVerificationError(anchorTransactionID, "invalid verification request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.NewTransientVerificationError(anchorTransactionID, describeNetworkError(err), err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusOK:
		return c.checkOutcome(anchorTransactionID, body)
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewPermanentVerificationError(anchorTransactionID, "anchor transaction not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errs.NewTransientVerificationError(anchorTransactionID,
			"verification endpoint rate limited", nil)
	case resp.StatusCode >= 500:
		return errs.NewTransientVerificationError(anchorTransactionID,
			fmt.Sprintf("verification endpoint error %d: %s", resp.StatusCode, errorDetail(body)), nil)
	default:
		return errs.NewPermanentVerificationError(anchorTransactionID,
			fmt.Sprintf("verification rejected with status %d: %s", resp.StatusCode, errorDetail(body)), nil)
	}
}

func (c *HorizonClient) checkOutcome(anchorTransactionID string, body []byte) error {
	var status transactionStatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		c.logger.Warn("Unparseable verification response", map[string]any{
			"anchor_transaction_id": anchorTransactionID,
			"error":                 err.Error(),
		})
		return errs.NewTransientVerificationError(anchorTransactionID, "malformed verification response", err)
	}

	if !status.Successful {
		reason := "anchor transaction did not settle"
		if status.ResultCode != "" {
			reason = fmt.Sprintf("anchor transaction failed with result code %s", status.ResultCode)
		}
		return errs.NewPermanentVerificationError(anchorTransactionID, reason, nil)
	}

	return nil
}

func describeNetworkError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "verification request timed out"
	}
	return fmt.Sprintf("verification endpoint unreachable: %s", err.Error())
}

func errorDetail(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	if detail == "" {
		detail = "no detail"
	}
	return detail
}

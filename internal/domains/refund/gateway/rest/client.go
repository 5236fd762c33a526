package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"furnishop-backend/internal/domains/refund/gateway"
	"furnishop-backend/internal/domains/refund/model"
)

// =====================================================
// REST PAYMENT GATEWAY CLIENT
// =====================================================

// Config holds the payment provider connection settings
type Config struct {
	BaseURL string // provider API base URL, e.g. https://pay.example.com/api
	APIKey  string // bearer key
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("payment gateway base URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("payment gateway API key is required")
	}
	return nil
}

type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a REST payment gateway client. An unconfigured
// gateway is a constructor error, not a runtime surprise.
func NewClient(config *Config) (gateway.PaymentGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payment gateway config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// refundRequestBody is the wire shape of POST /refunds
type refundRequestBody struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// refundResponseBody is the provider's answer
type refundResponseBody struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// InitiateRefund calls POST /refunds on the provider. Transport and
// non-2xx failures are returned as errors for the execution service to
// absorb into a failed transition.
func (c *Client) InitiateRefund(ctx context.Context, referenceID string, amount model.Money) (*gateway.RefundResult, error) {
	body, err := json.Marshal(refundRequestBody{
		TransactionID: referenceID,
		Amount:        amount.Amount.StringFixed(2),
		Currency:      amount.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refund request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/refunds", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build refund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed refundResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse payment gateway response: %w", err)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBody, &raw)

	return &gateway.RefundResult{
		Success:       parsed.Success,
		TransactionID: parsed.TransactionID,
		Message:       parsed.Message,
		RawResponse:   raw,
	}, nil
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteOrder is the gateway-side order created before the buyer pays.
type RemoteOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
}

// Client creates remote orders on the payment gateway. The demo path never
// touches a Client, so callers may hold a nil implementation there.
type Client interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (RemoteOrder, error)
}

// HTTPClient talks to a Razorpay-style orders API using basic auth. The one
// external call this core makes carries a request timeout and is never
// retried here; retry policy belongs to the caller.
type HTTPClient struct {
	BaseURL   string
	KeyID     string
	KeySecret string

	httpClient *http.Client
}

func NewHTTPClient(baseURL, keyID, keySecret string) *HTTPClient {
	return &HTTPClient{
		BaseURL:    baseURL,
		KeyID:      keyID,
		KeySecret:  keySecret,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *HTTPClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (RemoteOrder, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return RemoteOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return RemoteOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RemoteOrder{}, fmt.Errorf("gateway create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return RemoteOrder{}, fmt.Errorf("gateway create order: status=%d body=%s", resp.StatusCode, string(b))
	}

	var out RemoteOrder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return RemoteOrder{}, fmt.Errorf("gateway decode: %w", err)
	}
	if out.ID == "" {
		return RemoteOrder{}, fmt.Errorf("gateway returned empty order id")
	}
	if out.Currency == "" {
		out.Currency = currency
	}
	return out, nil
}

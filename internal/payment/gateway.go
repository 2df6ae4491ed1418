// Package payment wraps the external payment gateway. Only the
// intent-creation boundary matters to this service: the client sends
// an amount in minor units plus a currency and receives the client
// secret the browser needs to confirm the charge. Everything else
// about the gateway (confirmation, webhooks) happens between the
// client and the gateway directly, before settlement is called.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// IntentCreator creates a payment intent and returns its client
// secret. Implementations must honor the context for cancellation.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error)
}

// Client talks to the gateway's REST API using form encoding and a
// bearer API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client for the given gateway endpoint and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateIntent posts to /v1/payment_intents and returns the intent's
// client secret. Amounts are minor units (e.g. cents); callers are
// responsible for the round(price*100) conversion.
func (c *Client) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("payment gateway: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.ClientSecret == "" {
		return "", fmt.Errorf("payment gateway: response missing client_secret")
	}
	return body.ClientSecret, nil
}

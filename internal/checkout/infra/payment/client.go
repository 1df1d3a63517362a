// Package payment relays checkout sessions to the hosted payment provider.
// The relay is deliberately thin: one request, one response, no retries and
// no idempotency keys.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danuprasetya/furnistore/internal/checkout/domain"
)

type Config struct {
	BaseURL    string
	APIKey     string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type sessionRequest struct {
	LineItems  []sessionLineItem `json:"line_items"`
	Payer      sessionPayer      `json:"payer"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
}

type sessionLineItem struct {
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

type sessionPayer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) CreateSession(ctx context.Context, q domain.Quote, payer domain.Payer) (domain.PaymentSession, error) {
	body := sessionRequest{
		LineItems:  make([]sessionLineItem, 0, len(q.Lines)),
		Payer:      sessionPayer{Name: payer.Name, Email: payer.Email},
		SuccessURL: c.cfg.SuccessURL,
		CancelURL:  c.cfg.CancelURL,
	}
	for _, line := range q.Lines {
		body.LineItems = append(body.LineItems, sessionLineItem{
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitAmount: line.UnitPrice.Amount,
			Currency:   line.UnitPrice.Currency,
		})
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/checkout/sessions", bytes.NewReader(buf))
	if err != nil {
		return domain.PaymentSession{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("payment provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.PaymentSession{}, fmt.Errorf("payment provider status %d: %s", resp.StatusCode, snippet)
	}

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.PaymentSession{}, fmt.Errorf("decode session response: %w", err)
	}
	if out.URL == "" {
		return domain.PaymentSession{}, fmt.Errorf("payment provider returned no redirect url")
	}

	return domain.PaymentSession{ID: out.ID, URL: out.URL}, nil
}

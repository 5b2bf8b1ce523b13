// Package webhook posts purchase-request events to one external team-chat
// endpoint as fixed-schema cards.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	appconfig "procure-notify/internal/config"
	"procure-notify/internal/domain/entity"
)

// Client delivers cards to the configured chat endpoint. An unconfigured
// endpoint is a legal state; callers must check Configured and skip.
type Client struct {
	cfg         appconfig.WebhookConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a webhook client. The limiter paces sends to one per
// second, matching the typical incoming-webhook budget.
func NewClient(cfg appconfig.WebhookConfig) *Client {
	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: NewRateLimiter(1.0, 1),
	}
}

// Configured reports whether a destination endpoint is set.
func (c *Client) Configured() bool { return c.cfg.Configured() }

// Send builds the card for the event and posts it. A non-2xx answer is a
// hard failure carrying the upstream status code and response body.
func (c *Client) Send(ctx context.Context, ev *entity.RequestEvent) error {
	if !c.cfg.Configured() {
		return &entity.ConfigurationError{Channel: entity.ChannelWebhook, Missing: "webhook URL"}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	card := buildCard(ev, c.cfg.DetailBaseURL)
	data, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &entity.TransportError{Channel: entity.ChannelWebhook, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &entity.TransportError{
			Channel:    entity.ChannelWebhook,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("chat endpoint rejected card: %s", string(body)),
		}
	}

	slog.Debug("webhook card delivered",
		slog.String("request_number", ev.Number),
		slog.Int("status", resp.StatusCode))
	return nil
}

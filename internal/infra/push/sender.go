// Package push sends signed Web Push messages to browser subscription
// endpoints using the engine's process-wide VAPID key pair.
package push

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	appconfig "procure-notify/internal/config"
	"procure-notify/internal/domain/entity"
)

// StaleFunc is invoked when a push service reports a subscription endpoint
// permanently gone (404/410). Callers may wire it to subscriber deletion;
// the sender itself never prunes rows.
type StaleFunc func(ctx context.Context, subscriberID int64)

// Sender signs and delivers payloads to individual subscription endpoints.
type Sender struct {
	cfg     appconfig.PushConfig
	client  *http.Client
	onStale StaleFunc
}

// NewSender creates a Sender with the given VAPID configuration.
func NewSender(cfg appconfig.PushConfig) *Sender {
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// OnStale registers the optional stale-endpoint hook.
func (s *Sender) OnStale(fn StaleFunc) { s.onStale = fn }

// Enabled reports whether the channel has a usable key pair.
func (s *Sender) Enabled() bool { return s.cfg.Enabled() }

// PublicKey returns the VAPID public key clients need to register
// subscriptions.
func (s *Sender) PublicKey() string { return s.cfg.VAPIDPublicKey }

// Send delivers one encrypted payload to one subscription endpoint.
// Failures are returned as *entity.TransportError so the fan-out can record
// them without aborting sibling sends; there is no retry here.
func (s *Sender) Send(ctx context.Context, sub *entity.Subscriber, message []byte) error {
	if !s.cfg.Enabled() {
		return &entity.ConfigurationError{Channel: entity.ChannelPush, Missing: "VAPID key pair"}
	}

	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subject,
		TTL:             s.cfg.TTL,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
	})
	if err != nil {
		return &entity.TransportError{Channel: entity.ChannelPush, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	// 404/410 means the endpoint is permanently gone. Report it through the
	// hook so the owner can prune the row, but still fail this send.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		slog.Info("push endpoint gone",
			slog.Int64("subscriber_id", sub.ID),
			slog.String("user_id", sub.UserID),
			slog.Int("status", resp.StatusCode))
		if s.onStale != nil {
			s.onStale(ctx, sub.ID)
		}
	}

	return &entity.TransportError{
		Channel:    entity.ChannelPush,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("push service rejected send: %s", string(body)),
	}
}

// Package webhookevent forwards purchase-request lifecycle events to the
// team-chat webhook. The endpoint is optional: without one configured the
// operation degrades to a skipped success with no side effects.
package webhookevent

import (
	"context"
	"fmt"
	"log/slog"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/usecase/dispatch"
)

// Poster delivers one event card to the configured chat endpoint.
type Poster interface {
	Configured() bool
	Send(ctx context.Context, ev *entity.RequestEvent) error
}

// Outcome reports what happened to one event.
type Outcome struct {
	// Skipped is true when no endpoint is configured: the event was
	// accepted and dropped without any network or log activity.
	Skipped bool
}

// Service implements the webhook-channel use case.
type Service struct {
	Poster     Poster
	Dispatcher *dispatch.Service
}

// Notify validates the event and posts its card. An unconfigured endpoint
// yields a skipped success before any I/O; a configured endpoint runs the
// send through the aggregator so the delivery log records it like the other
// channels. Transport failures propagate to the caller.
func (s *Service) Notify(ctx context.Context, ev *entity.RequestEvent) (*Outcome, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	if !s.Poster.Configured() {
		slog.Debug("webhook endpoint not configured, skipping event",
			slog.String("request_number", ev.Number))
		return &Outcome{Skipped: true}, nil
	}

	subject := fmt.Sprintf("new request %s", ev.Number)
	if ev.IsRejection {
		subject = fmt.Sprintf("request %s rejected", ev.Number)
	}

	summary, err := s.Dispatcher.Run(ctx, dispatch.Job{
		Channel:    entity.ChannelWebhook,
		SentBy:     ev.Requester,
		Subject:    subject,
		Recipients: []string{"chat"},
		Metadata: map[string]any{
			"request_id": ev.ID,
			"rejection":  ev.IsRejection,
		},
		Send: func(ctx context.Context, _ string) error {
			return s.Poster.Send(ctx, ev)
		},
	})
	if err != nil {
		return nil, err
	}
	if summary.SuccessCount == 0 {
		return nil, summary.Results[0].Err
	}
	return &Outcome{}, nil
}

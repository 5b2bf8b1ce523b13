// Package notification provides the push-channel use cases: managing
// browser push registrations and fanning a notification out to every
// resolved user.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/repository"
	"procure-notify/internal/usecase/dispatch"
	"procure-notify/internal/usecase/resolve"
)

// Payload is the notification content handed to the push channel. Data is
// merged with a server-side timestamp before signing.
type Payload struct {
	Title string
	Body  string
	Data  map[string]any
}

// Validate checks the fields the channel cannot deliver without.
func (p Payload) Validate() error {
	if p.Title == "" {
		return &entity.ValidationError{Field: "title", Message: "is required"}
	}
	if p.Body == "" {
		return &entity.ValidationError{Field: "body", Message: "is required"}
	}
	return nil
}

// Sender delivers one signed payload to one subscription endpoint.
type Sender interface {
	Enabled() bool
	PublicKey() string
	Send(ctx context.Context, sub *entity.Subscriber, message []byte) error
}

// Service implements the push-channel use cases.
type Service struct {
	Resolver    *resolve.Resolver
	Subscribers repository.SubscriberRepository
	Sender      Sender
	Dispatcher  *dispatch.Service
}

// Subscribe registers a push endpoint for the user. The upsert is keyed by
// (user, endpoint), so repeating a registration refreshes the keys instead
// of creating a duplicate.
func (s *Service) Subscribe(ctx context.Context, sub *entity.Subscriber) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	if err := s.Subscribers.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

// Unsubscribe removes every registration owned by the user and returns how
// many rows were removed.
func (s *Service) Unsubscribe(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, &entity.ValidationError{Field: "userId", Message: "is required"}
	}
	n, err := s.Subscribers.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete subscribers: %w", err)
	}
	return n, nil
}

// PublicKey returns the VAPID public key clients need to register, or a
// configuration error when the channel is disabled.
func (s *Service) PublicKey() (string, error) {
	if !s.Sender.Enabled() {
		return "", &entity.ConfigurationError{Channel: entity.ChannelPush, Missing: "VAPID key pair"}
	}
	return s.Sender.PublicKey(), nil
}

// Notify resolves the spec to push destinations and fans the payload out,
// one concurrent task per user. A user-level send succeeds when at least
// one of their device endpoints accepts the payload; per-device failures
// are contained by the sender. Validation and resolution happen before any
// network I/O; an empty destination set yields entity.ErrNoTargets.
func (s *Service) Notify(ctx context.Context, actor string, spec resolve.TargetingSpec, payload Payload) (*dispatch.Summary, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if !s.Sender.Enabled() {
		return nil, &entity.ConfigurationError{Channel: entity.ChannelPush, Missing: "VAPID key pair"}
	}

	dests, err := s.Resolver.ResolvePush(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("resolve push targets: %w", err)
	}
	if len(dests) == 0 {
		return nil, entity.ErrNoTargets
	}

	message, err := s.buildMessage(payload)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]resolve.PushDestination, len(dests))
	recipients := make([]string, 0, len(dests))
	for _, d := range dests {
		byUser[d.UserID] = d
		recipients = append(recipients, d.UserID)
	}

	return s.Dispatcher.Run(ctx, dispatch.Job{
		Channel:    entity.ChannelPush,
		SentBy:     actor,
		Subject:    payload.Title,
		Recipients: recipients,
		Metadata: map[string]any{
			"body": payload.Body,
		},
		Send: func(ctx context.Context, userID string) error {
			return s.sendToUser(ctx, byUser[userID], message)
		},
	})
}

// sendToUser attempts every device of one user independently and succeeds
// when any endpoint accepted the payload.
func (s *Service) sendToUser(ctx context.Context, dest resolve.PushDestination, message []byte) error {
	var lastErr error
	delivered := false
	for _, sub := range dest.Subscribers {
		if err := s.Sender.Send(ctx, sub, message); err != nil {
			lastErr = err
			continue
		}
		delivered = true
	}
	if !delivered {
		return lastErr
	}
	return nil
}

// buildMessage merges the caller data with a server timestamp and encodes
// the wire payload once for all recipients.
func (s *Service) buildMessage(payload Payload) ([]byte, error) {
	data := make(map[string]any, len(payload.Data)+1)
	for k, v := range payload.Data {
		data[k] = v
	}
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	message, err := json.Marshal(map[string]any{
		"title": payload.Title,
		"body":  payload.Body,
		"data":  data,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal push payload: %w", err)
	}
	return message, nil
}

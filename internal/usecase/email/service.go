// Package email provides the email-channel use cases: rendering the typed
// templates and fanning a rendered message out to every resolved address
// through the configured transport.
package email

import (
	"context"
	"fmt"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/infra/mailer"
	"procure-notify/internal/usecase/dispatch"
	"procure-notify/internal/usecase/resolve"
)

// Service implements the email-channel use cases on top of one transport
// selected at startup.
type Service struct {
	Resolver   *resolve.Resolver
	Transport  mailer.Transport
	Dispatcher *dispatch.Service
}

// Send renders the template, resolves the spec to addresses and fans the
// message out, one concurrent task per address. Rendering and resolution
// happen before any network I/O, so a validation failure never produces a
// partial batch; an empty destination set yields entity.ErrNoTargets.
func (s *Service) Send(ctx context.Context, actor string, spec resolve.TargetingSpec, kind TemplateKind, data TemplateData) (*dispatch.Summary, error) {
	if s.Transport == nil {
		return nil, &entity.ConfigurationError{Channel: entity.ChannelEmail, Missing: "mail transport"}
	}

	msg, err := Render(kind, data)
	if err != nil {
		return nil, err
	}

	dests, err := s.Resolver.ResolveEmail(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("resolve email targets: %w", err)
	}
	if len(dests) == 0 {
		return nil, entity.ErrNoTargets
	}

	recipients := make([]string, 0, len(dests))
	for _, d := range dests {
		recipients = append(recipients, d.Email)
	}

	return s.Dispatcher.Run(ctx, dispatch.Job{
		Channel:    entity.ChannelEmail,
		SentBy:     actor,
		Subject:    msg.Subject,
		Recipients: recipients,
		Metadata: map[string]any{
			"template":  string(kind),
			"transport": s.Transport.Name(),
		},
		Send: func(ctx context.Context, addr string) error {
			_, err := s.Transport.Send(ctx, addr, msg)
			return err
		},
	})
}

// TestConnection verifies the configured transport can reach its backend.
func (s *Service) TestConnection(ctx context.Context) error {
	if s.Transport == nil {
		return &entity.ConfigurationError{Channel: entity.ChannelEmail, Missing: "mail transport"}
	}
	return s.Transport.TestConnection(ctx)
}

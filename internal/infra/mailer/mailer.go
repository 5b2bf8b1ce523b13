// Package mailer provides the transactional email transports. Two
// interchangeable implementations exist: a direct SMTP transport and a
// hosted-mailbox API transport. The caller picks one at startup; there is
// no automatic failover between them.
package mailer

import "context"

// Message is one rendered email ready for delivery.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Transport delivers rendered messages to single destinations.
// Implementations must be safe for concurrent use; the batch fan-out calls
// Send from one goroutine per recipient.
type Transport interface {
	// Name identifies the transport in logs and delivery metadata.
	Name() string

	// Send delivers the message to one address and returns a provider
	// message ID where the backend supplies one.
	Send(ctx context.Context, to string, msg *Message) (messageID string, err error)

	// TestConnection verifies that the transport can reach its backend
	// with the configured credentials.
	TestConnection(ctx context.Context) error
}

package entity

import "time"

// Delivery channel identifiers recorded in delivery logs and metrics.
const (
	ChannelPush    = "push"
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// DeliveryLog is the durable record of one dispatch call: who triggered it,
// which channel was used, and how many of the resolved targets succeeded.
// Rows are append-only; the engine never updates or rewrites them.
type DeliveryLog struct {
	ID           int64
	SentBy       string
	Channel      string
	Subject      string
	TargetCount  int
	SuccessCount int
	// Metadata carries channel-specific payload details (template kind,
	// request number, webhook endpoint host). Stored as JSONB.
	Metadata  map[string]any
	CreatedAt time.Time
}

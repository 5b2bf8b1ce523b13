// Package config holds the typed channel configurations for the
// notification engine. Every config is loaded once at startup from the
// environment and read-only afterwards; there is no hot reload.
package config

import (
	"time"

	"procure-notify/pkg/config"
)

// PushConfig carries the VAPID signing key pair for the browser push
// channel. An incomplete pair disables only this channel, not the engine.
type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// Subject is the contact URI embedded in the VAPID claims,
	// usually a mailto: address.
	Subject string
	TTL     int
}

// Enabled reports whether the push channel has a usable key pair.
func (c PushConfig) Enabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// LoadPush reads the push channel configuration from the environment.
func LoadPush() PushConfig {
	return PushConfig{
		VAPIDPublicKey:  config.GetEnvString("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: config.GetEnvString("VAPID_PRIVATE_KEY", ""),
		Subject:         config.GetEnvString("VAPID_SUBJECT", "mailto:admin@example.com"),
		TTL:             config.GetEnvInt("PUSH_TTL_SECONDS", 86400),
	}
}

// SMTPConfig configures the direct network-mail transport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether the SMTP transport has a usable host and sender.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// LoadSMTP reads the SMTP transport configuration from the environment.
func LoadSMTP() SMTPConfig {
	return SMTPConfig{
		Host:     config.GetEnvString("SMTP_HOST", ""),
		Port:     config.GetEnvInt("SMTP_PORT", 587),
		Username: config.GetEnvString("SMTP_USER", ""),
		Password: config.GetEnvString("SMTP_PASSWORD", ""),
		From:     config.GetEnvString("SMTP_FROM", ""),
	}
}

// GraphConfig configures the hosted-mailbox API transport. Mail is sent
// through a tenant application credential as a configured mailbox.
type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// SenderMailbox is the address mail is sent as.
	SenderMailbox string
}

// Enabled reports whether the hosted-mailbox transport is fully configured.
func (c GraphConfig) Enabled() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != "" && c.SenderMailbox != ""
}

// LoadGraph reads the hosted-mailbox transport configuration from the environment.
func LoadGraph() GraphConfig {
	return GraphConfig{
		TenantID:      config.GetEnvString("GRAPH_TENANT_ID", ""),
		ClientID:      config.GetEnvString("GRAPH_CLIENT_ID", ""),
		ClientSecret:  config.GetEnvString("GRAPH_CLIENT_SECRET", ""),
		SenderMailbox: config.GetEnvString("GRAPH_SENDER_MAILBOX", ""),
	}
}

// WebhookConfig configures the team-chat webhook channel. An empty URL is a
// legal state: sends degrade to a skipped outcome instead of failing.
type WebhookConfig struct {
	URL string
	// DetailBaseURL is the host application's UI origin used to build the
	// card's action link to a request's detail view.
	DetailBaseURL string
	Timeout       time.Duration
}

// Configured reports whether a destination endpoint is set.
func (c WebhookConfig) Configured() bool { return c.URL != "" }

// LoadWebhook reads the webhook channel configuration from the environment.
func LoadWebhook() WebhookConfig {
	return WebhookConfig{
		URL:           config.GetEnvString("CHAT_WEBHOOK_URL", ""),
		DetailBaseURL: config.GetEnvString("APP_BASE_URL", "http://localhost:3000"),
		Timeout:       config.GetEnvDuration("CHAT_WEBHOOK_TIMEOUT", 15*time.Second),
	}
}

// RetentionConfig configures the delivery-log retention janitor.
type RetentionConfig struct {
	// MaxAge is how long delivery log rows are kept.
	MaxAge time.Duration
	// Schedule is a cron expression for the cleanup run.
	Schedule string
}

// LoadRetention reads the retention configuration from the environment.
func LoadRetention() RetentionConfig {
	return RetentionConfig{
		MaxAge:   config.GetEnvDuration("DELIVERY_LOG_RETENTION", 90*24*time.Hour),
		Schedule: config.GetEnvString("DELIVERY_LOG_CLEANUP_SCHEDULE", "@daily"),
	}
}

package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoTargets indicates that recipient resolution produced an empty
	// destination set. It is detected before any channel I/O and results in
	// zero side effects (no sends, no delivery log row).
	ErrNoTargets = errors.New("no notification targets resolved")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// TransportError represents a failure talking to a channel backend (push
// service, mail server, chat webhook). Inside a fan-out it is recorded as a
// failed per-recipient outcome and never aborts sibling sends.
type TransportError struct {
	Channel    string
	StatusCode int // 0 when the failure happened before an HTTP status was read
	Message    string
}

// Error returns a formatted error message for the transport error.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s transport error (status %d): %s", e.Channel, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s transport error: %s", e.Channel, e.Message)
}

// ConfigurationError indicates that a channel is missing its credentials or
// endpoint. Depending on the channel this either disables the channel at
// startup (push, email) or degrades a send to a skipped outcome (webhook).
type ConfigurationError struct {
	Channel string
	Missing string
}

// Error returns a formatted error message for the configuration error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s channel not configured: missing %s", e.Channel, e.Missing)
}

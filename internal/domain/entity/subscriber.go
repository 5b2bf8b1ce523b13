package entity

import "time"

// Subscriber represents one browser push registration owned by a user.
// A user may hold several subscribers at once (one per device/browser).
// The (UserID, Endpoint) pair is unique: re-registering the same endpoint
// overwrites the stored keys instead of creating a duplicate row.
type Subscriber struct {
	ID        int64
	UserID    string
	Endpoint  string
	P256dh    string
	Auth      string
	CreatedAt time.Time
}

// Validate checks that the subscriber carries everything a push send needs.
func (s *Subscriber) Validate() error {
	if s.UserID == "" {
		return &ValidationError{Field: "userId", Message: "is required"}
	}
	if s.Endpoint == "" {
		return &ValidationError{Field: "endpoint", Message: "is required"}
	}
	if s.P256dh == "" {
		return &ValidationError{Field: "p256dh", Message: "is required"}
	}
	if s.Auth == "" {
		return &ValidationError{Field: "auth", Message: "is required"}
	}
	return nil
}

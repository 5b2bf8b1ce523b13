package repository

import (
	"context"

	"procure-notify/internal/domain/entity"
)

// SubscriberRepository persists browser push registrations.
type SubscriberRepository interface {
	// Upsert stores a subscriber, keyed by (user_id, endpoint). Re-registering
	// an existing endpoint overwrites its keys instead of adding a row.
	Upsert(ctx context.Context, sub *entity.Subscriber) error

	// ListByUsers returns all subscribers belonging to any of the given users.
	ListByUsers(ctx context.Context, userIDs []string) ([]*entity.Subscriber, error)

	// DeleteByUser removes every subscriber row owned by the user.
	// Returns the number of rows removed.
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	// Delete removes a single subscriber row. Used by the stale-endpoint hook
	// when a push service reports an endpoint permanently gone.
	Delete(ctx context.Context, id int64) error
}

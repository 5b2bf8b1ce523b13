package repository

import (
	"context"
	"time"

	"procure-notify/internal/domain/entity"
)

// DeliveryLogRepository persists dispatch records. The table is append-only:
// one row per dispatch call, never updated afterwards.
type DeliveryLogRepository interface {
	// Create appends one delivery log row.
	Create(ctx context.Context, log *entity.DeliveryLog) error

	// ListRecent returns the newest rows, most recent first.
	ListRecent(ctx context.Context, limit int) ([]*entity.DeliveryLog, error)

	// DeleteOlderThan removes rows created before the cutoff and returns the
	// number of rows removed. Used by the retention janitor.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

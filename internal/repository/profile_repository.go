package repository

import (
	"context"

	"procure-notify/internal/domain/entity"
)

// ProfileRepository reads user profiles owned by the host application.
// This engine treats the users table as read-only; filtering beyond the
// basic column selection happens in the resolver so that the heterogeneous
// site_id column is normalized in exactly one place.
type ProfileRepository interface {
	// List returns all profiles.
	List(ctx context.Context) ([]*entity.Profile, error)
}

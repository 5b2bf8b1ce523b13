package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/repository"
)

type SubscriberRepo struct{ db *sql.DB }

func NewSubscriberRepo(db *sql.DB) repository.SubscriberRepository {
	return &SubscriberRepo{db: db}
}

// Upsert is keyed by (user_id, endpoint): a re-registration of the same
// endpoint overwrites the encryption keys instead of inserting a duplicate.
func (repo *SubscriberRepo) Upsert(ctx context.Context, sub *entity.Subscriber) error {
	const query = `
INSERT INTO push_subscribers (user_id, endpoint, p256dh, auth)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, endpoint)
DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

func (repo *SubscriberRepo) ListByUsers(ctx context.Context, userIDs []string) ([]*entity.Subscriber, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(userIDs))
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`
SELECT id, user_id, endpoint, p256dh, auth, created_at
FROM push_subscribers
WHERE user_id IN (%s)
ORDER BY id ASC`, strings.Join(placeholders, ", "))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByUsers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	subs := make([]*entity.Subscriber, 0, len(userIDs))
	for rows.Next() {
		var sub entity.Subscriber
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByUsers: %w", err)
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (repo *SubscriberRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const query = `DELETE FROM push_subscribers WHERE user_id = $1`
	res, err := repo.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("DeleteByUser: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByUser: %w", err)
	}
	return n, nil
}

func (repo *SubscriberRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM push_subscribers WHERE id = $1`
	if _, err := repo.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

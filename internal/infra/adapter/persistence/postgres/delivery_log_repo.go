package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/repository"
)

type DeliveryLogRepo struct{ db *sql.DB }

func NewDeliveryLogRepo(db *sql.DB) repository.DeliveryLogRepository {
	return &DeliveryLogRepo{db: db}
}

func (repo *DeliveryLogRepo) Create(ctx context.Context, log *entity.DeliveryLog) error {
	// An untyped nil reaches the driver as SQL NULL; a nil []byte would
	// bind as an empty bytea instead.
	var metadata any
	if log.Metadata != nil {
		encoded, err := json.Marshal(log.Metadata)
		if err != nil {
			return fmt.Errorf("Create: marshal metadata: %w", err)
		}
		metadata = encoded
	}

	const query = `
INSERT INTO delivery_logs (sent_by, channel, subject, target_count, success_count, metadata)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		log.SentBy, log.Channel, log.Subject, log.TargetCount, log.SuccessCount, metadata,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *DeliveryLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.DeliveryLog, error) {
	const query = `
SELECT id, sent_by, channel, subject, target_count, success_count, metadata, created_at
FROM delivery_logs
ORDER BY created_at DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*entity.DeliveryLog, 0, limit)
	for rows.Next() {
		var log entity.DeliveryLog
		var metadata []byte
		if err := rows.Scan(&log.ID, &log.SentBy, &log.Channel, &log.Subject,
			&log.TargetCount, &log.SuccessCount, &metadata, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListRecent: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &log.Metadata); err != nil {
				return nil, fmt.Errorf("ListRecent: unmarshal metadata: %w", err)
			}
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

func (repo *DeliveryLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM delivery_logs WHERE created_at < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	return n, nil
}

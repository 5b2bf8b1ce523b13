package db

import "database/sql"

// MigrateUp creates the tables owned by the notification engine. Statements
// are idempotent so the migration can run on every startup.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS push_subscribers (
    id         BIGSERIAL PRIMARY KEY,
    user_id    TEXT NOT NULL,
    endpoint   TEXT NOT NULL,
    p256dh     TEXT NOT NULL,
    auth       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, endpoint)
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE INDEX IF NOT EXISTS idx_push_subscribers_user_id
    ON push_subscribers (user_id)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS delivery_logs (
    id            BIGSERIAL PRIMARY KEY,
    sent_by       TEXT NOT NULL,
    channel       TEXT NOT NULL,
    subject       TEXT NOT NULL DEFAULT '',
    target_count  INT NOT NULL,
    success_count INT NOT NULL,
    metadata      JSONB,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE INDEX IF NOT EXISTS idx_delivery_logs_created_at
    ON delivery_logs (created_at DESC)`); err != nil {
		return err
	}

	return nil
}

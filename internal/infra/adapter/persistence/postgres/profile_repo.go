package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/repository"
)

type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepo{db: db}
}

// List selects only the columns this engine consumes. The users table also
// carries role-elevation bookkeeping owned by the host application; those
// columns are deliberately not read here. site_id is kept raw because its
// stored shape is inconsistent (scalar or JSON array) and normalization
// belongs to the resolver boundary.
func (repo *ProfileRepo) List(ctx context.Context) ([]*entity.Profile, error) {
	const query = `
SELECT id, email, COALESCE(name, ''), role, COALESCE(site_id::text, ''), COALESCE(email_notifications, FALSE)
FROM users
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	profiles := make([]*entity.Profile, 0, 50)
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &p.RawSiteID, &p.EmailNotifications); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

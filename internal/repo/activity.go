package repo

import (
	"context"
	"database/sql"

	"github.com/kendoworks/taller/internal/models"
)

// ActivityRepo persists the append-only activity log. Entries are never
// mutated or deleted.
type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Log appends one activity entry and returns it as stored.
func (r *ActivityRepo) Log(ctx context.Context, userID, userEmail, action, description, ipAddress string) (*models.ActivityEntry, error) {
	query := `
		INSERT INTO activity_log (user_id, user_email, action, description, ip_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	entry := &models.ActivityEntry{
		UserID:      userID,
		UserEmail:   userEmail,
		Action:      action,
		Description: description,
		IPAddress:   ipAddress,
	}
	err := r.db.QueryRowContext(ctx, query, userID, userEmail, action, description, ipAddress).
		Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Recent returns the latest limit entries, newest first. Same-second entries
// keep insertion order via the id tiebreaker.
func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, user_email, action, description, ip_address, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.Description, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kendoworks/taller/internal/models"
)

// RequestRepo persists repair requests.
type RequestRepo struct {
	db *sql.DB
}

func NewRequestRepo(db *sql.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

// Create stores a new repair request with status pendiente.
func (r *RequestRepo) Create(ctx context.Context, userID, userEmail, equipmentType, description string) (*models.RepairRequest, error) {
	query := `
		INSERT INTO repair_requests (user_id, user_email, equipment_type, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, user_email, equipment_type, description, status, created_at
	`

	req := &models.RepairRequest{}
	err := r.db.QueryRowContext(ctx, query, userID, userEmail, equipmentType, description, models.StatusPending).
		Scan(&req.ID, &req.UserID, &req.UserEmail, &req.EquipmentType, &req.Description, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// GetByID returns one request, or ErrNotFound.
func (r *RequestRepo) GetByID(ctx context.Context, id int) (*models.RepairRequest, error) {
	query := `
		SELECT id, user_id, user_email, equipment_type, description, status, created_at
		FROM repair_requests
		WHERE id = $1
	`

	req := &models.RepairRequest{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&req.ID, &req.UserID, &req.UserEmail, &req.EquipmentType, &req.Description, &req.Status, &req.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListByUser returns the requests owned by userID, oldest first (insertion order).
func (r *RequestRepo) ListByUser(ctx context.Context, userID string) ([]models.RepairRequest, error) {
	query := `
		SELECT id, user_id, user_email, equipment_type, description, status, created_at
		FROM repair_requests
		WHERE user_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, userID)
}

// ListAll returns every request, newest first, for the admin views.
func (r *RequestRepo) ListAll(ctx context.Context) ([]models.RepairRequest, error) {
	query := `
		SELECT id, user_id, user_email, equipment_type, description, status, created_at
		FROM repair_requests
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query)
}

// UpdateStatus sets the status of one request. Returns ErrNotFound when the
// id does not exist. Last write wins on concurrent updates.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE repair_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of requests per status. Used by the daily digest.
func (r *RequestRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM repair_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *RequestRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.RepairRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.RepairRequest
	for rows.Next() {
		var req models.RepairRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.UserEmail, &req.EquipmentType, &req.Description, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kendoworks/taller/internal/models"
)

// Demo accounts for local use. Hashes cannot live in the migration because
// bcrypt output is salted, so seeding happens here at startup.
var seedUsers = []struct {
	id, email, role, password string
}{
	{"admin-user", "admin@kendo.com", models.RoleAdmin, "admin123"},
	{"client-user", "cliente@kendo.com", models.RoleClient, "cliente123"},
}

var seedRequests = []struct {
	equipment, description, status, createdAt string
}{
	{"Men (Máscara)", "Reparación de rejilla frontal dañada", models.StatusPending, "2024-01-15 10:30:00"},
	{"Shinai (Espada)", "Cambio de tsuru (cuerda) y reparación de empuñadura", models.StatusInProgress, "2024-01-10 14:20:00"},
	{"Do (Peto)", "Ajuste de correas y limpieza general", models.StatusCompleted, "2024-01-05 09:15:00"},
}

var seedActivity = []struct {
	userID, email, action, description, timestamp, ip string
}{
	{"client-user", "cliente@kendo.com", models.ActionLogin, "Inició sesión en el sistema", "2024-01-15 09:30:00", "192.168.1.100"},
	{"client-user", "cliente@kendo.com", models.ActionCreateRequest, "Creó nueva solicitud: Men (Máscara)", "2024-01-15 10:15:00", "192.168.1.100"},
	{"admin-user", "admin@kendo.com", models.ActionStatusUpdate, `Actualizó estado de solicitud #1 a "en_proceso"`, "2024-01-15 11:20:00", "192.168.1.50"},
	{"new-user", "nuevo@kendo.com", models.ActionRegister, "Nuevo usuario registrado en el sistema", "2024-01-15 14:45:00", "192.168.1.75"},
	{"client-user", "cliente@kendo.com", models.ActionViewDashboard, "Consultó el dashboard de solicitudes", "2024-01-15 16:30:00", "192.168.1.100"},
}

// Seed inserts the demo accounts, sample requests, and sample activity when
// they are not already present. Safe to run on every startup.
func Seed(ctx context.Context, db *sql.DB) error {
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hash password for %s: %w", u.email, err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO users (id, email, role, password_hash) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			u.id, u.email, u.role, string(hash),
		)
		if err != nil {
			return fmt.Errorf("seed: insert user %s: %w", u.email, err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM repair_requests`).Scan(&count); err != nil {
		return fmt.Errorf("seed: count requests: %w", err)
	}
	if count == 0 {
		for _, r := range seedRequests {
			_, err := db.ExecContext(ctx,
				`INSERT INTO repair_requests (user_id, user_email, equipment_type, description, status, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				"client-user", "cliente@kendo.com", r.equipment, r.description, r.status, r.createdAt,
			)
			if err != nil {
				return fmt.Errorf("seed: insert request %q: %w", r.equipment, err)
			}
		}
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_log`).Scan(&count); err != nil {
		return fmt.Errorf("seed: count activity: %w", err)
	}
	if count == 0 {
		for _, a := range seedActivity {
			_, err := db.ExecContext(ctx,
				`INSERT INTO activity_log (user_id, user_email, action, description, ip_address, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				a.userID, a.email, a.action, a.description, a.ip, a.timestamp,
			)
			if err != nil {
				return fmt.Errorf("seed: insert activity %s: %w", a.action, err)
			}
		}
	}

	return nil
}

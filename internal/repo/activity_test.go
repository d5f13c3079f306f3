package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kendoworks/taller/internal/models"
)

func TestActivityRepo_Log(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO activity_log`).
		WithArgs("client-user", "cliente@kendo.com", models.ActionLogin, "Inicio de sesión exitoso", "127.0.0.1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(6, time.Now()))

	repo := NewActivityRepo(db)
	entry, err := repo.Log(context.Background(), "client-user", "cliente@kendo.com", models.ActionLogin, "Inicio de sesión exitoso", "127.0.0.1")
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if entry.ID != 6 {
		t.Errorf("ID = %d, want 6", entry.ID)
	}
	if entry.Timestamp.IsZero() {
		t.Error("Timestamp not populated from RETURNING")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestActivityRepo_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	cols := []string{"id", "user_id", "user_email", "action", "description", "ip_address", "created_at"}
	mock.ExpectQuery(`FROM activity_log\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(5, "admin-user", "admin@kendo.com", models.ActionStatusUpdate, "Actualizó estado", "127.0.0.1", time.Now()).
			AddRow(4, "client-user", "cliente@kendo.com", models.ActionCreateRequest, "Nueva solicitud", "127.0.0.1", time.Now()))

	repo := NewActivityRepo(db)
	entries, err := repo.Recent(context.Background(), 20)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].ID != 5 || entries[1].ID != 4 {
		t.Errorf("rows out of order: %+v", entries)
	}
}

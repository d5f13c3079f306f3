package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/kendoworks/taller/internal/middleware"
	"github.com/kendoworks/taller/internal/models"
	"github.com/kendoworks/taller/internal/repo"
	"github.com/kendoworks/taller/internal/session"
)

var requestCols = []string{"id", "user_id", "user_email", "equipment_type", "description", "status", "created_at"}

func newAPIHandler(t *testing.T) (*APIHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &APIHandler{
		Requests: repo.NewRequestRepo(db),
		Activity: repo.NewActivityRepo(db),
		Users:    repo.NewUserRepo(db),
	}, mock
}

func withTestSession(r *http.Request, sess session.Session) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestListRequests_ClientScoped(t *testing.T) {
	h, mock := newAPIHandler(t)

	mock.ExpectQuery(`FROM repair_requests\s+WHERE user_id = \$1`).
		WithArgs("client-user").
		WillReturnRows(sqlmock.NewRows(requestCols).
			AddRow(1, "client-user", "cliente@kendo.com", "Men (Máscara)", "d1", "pendiente", time.Now()))

	r := withTestSession(httptest.NewRequest(http.MethodGet, "/api/requests", nil),
		session.Session{UserID: "client-user", Email: "cliente@kendo.com", Role: models.RoleClient})
	rec := httptest.NewRecorder()
	h.ListRequests(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var requests []models.RepairRequest
	if err := json.NewDecoder(rec.Body).Decode(&requests); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(requests) != 1 || requests[0].UserID != "client-user" {
		t.Errorf("unexpected requests: %+v", requests)
	}
}

func TestListRequests_AdminSeesAll(t *testing.T) {
	h, mock := newAPIHandler(t)

	mock.ExpectQuery(`FROM repair_requests\s+ORDER BY created_at DESC, id DESC`).
		WillReturnRows(sqlmock.NewRows(requestCols).
			AddRow(3, "client-user", "cliente@kendo.com", "Kote (Guantes)", "d3", "completado", time.Now()).
			AddRow(1, "client-user", "cliente@kendo.com", "Men (Máscara)", "d1", "pendiente", time.Now()))

	r := withTestSession(httptest.NewRequest(http.MethodGet, "/api/requests", nil),
		session.Session{UserID: "admin-user", Email: "admin@kendo.com", Role: models.RoleAdmin})
	rec := httptest.NewRecorder()
	h.ListRequests(rec, r)

	var requests []models.RepairRequest
	if err := json.NewDecoder(rec.Body).Decode(&requests); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(requests) != 2 || requests[0].ID != 3 {
		t.Errorf("unexpected requests: %+v", requests)
	}
}

func TestListRequests_EmptyIsArray(t *testing.T) {
	h, mock := newAPIHandler(t)

	mock.ExpectQuery(`FROM repair_requests\s+WHERE user_id = \$1`).
		WithArgs("client-user").
		WillReturnRows(sqlmock.NewRows(requestCols))

	r := withTestSession(httptest.NewRequest(http.MethodGet, "/api/requests", nil),
		session.Session{UserID: "client-user", Role: models.RoleClient})
	rec := httptest.NewRecorder()
	h.ListRequests(rec, r)

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty result body = %q, want []", body)
	}
}

func TestListActivities(t *testing.T) {
	h, mock := newAPIHandler(t)

	cols := []string{"id", "user_id", "user_email", "action", "description", "ip_address", "created_at"}
	mock.ExpectQuery(`FROM activity_log`).
		WithArgs(activityWindow).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "admin-user", "admin@kendo.com", "login", "Inició sesión en el sistema", "127.0.0.1", time.Now()).
			AddRow(1, "client-user", "cliente@kendo.com", "register", "Nuevo usuario registrado en el sistema", "127.0.0.1", time.Now()))

	rec := httptest.NewRecorder()
	h.ListActivities(rec, httptest.NewRequest(http.MethodGet, "/api/activities", nil))

	var entries []models.ActivityEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 2 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestListUsers(t *testing.T) {
	h, mock := newAPIHandler(t)

	mock.ExpectQuery(`FROM users ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("admin-user", "admin@kendo.com", "admin", "hash-a", time.Now()).
			AddRow("client-user", "cliente@kendo.com", "client", "hash-c", time.Now()))

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "hash-a") {
		t.Error("password hash leaked in response")
	}
	var users []models.User
	if err := json.Unmarshal([]byte(body), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 || users[0].ID != "admin-user" || users[1].Role != "client" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	h, mock := newAPIHandler(t)

	mock.ExpectQuery(`FROM repair_requests\s+WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(requestCols).
			AddRow(1, "client-user", "cliente@kendo.com", "Men (Máscara)", "d1", "pendiente", time.Now()))
	mock.ExpectExec(`UPDATE repair_requests SET status = \$1 WHERE id = \$2`).
		WithArgs("completado", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO activity_log`).
		WithArgs("admin-user", "admin@kendo.com", "status_update",
			`Actualizó estado de solicitud #1 de "pendiente" a "completado"`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	r := httptest.NewRequest(http.MethodPost, "/update_status/1", strings.NewReader(`{"status":"completado"}`))
	r = withTestSession(r, session.Session{UserID: "admin-user", Email: "admin@kendo.com", Role: models.RoleAdmin})
	r = withURLParam(r, "id", "1")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success   bool   `json:"success"`
		NewStatus string `json:"new_status"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.NewStatus != "completado" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Message != "Estado actualizado a completado" {
		t.Errorf("message = %q", resp.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	h, mock := newAPIHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/update_status/1", strings.NewReader(`{"status":"roto"}`))
	r = withTestSession(r, session.Session{UserID: "admin-user", Role: models.RoleAdmin})
	r = withURLParam(r, "id", "1")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Estado inválido") {
		t.Errorf("body = %s", rec.Body.String())
	}
	// Nothing may touch the database for an invalid status.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	h, mock := newAPIHandler(t)

	mock.ExpectQuery(`FROM repair_requests\s+WHERE id = \$1`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows(requestCols))

	r := httptest.NewRequest(http.MethodPost, "/update_status/999", strings.NewReader(`{"status":"completado"}`))
	r = withTestSession(r, session.Session{UserID: "admin-user", Role: models.RoleAdmin})
	r = withURLParam(r, "id", "999")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Solicitud no encontrada") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUpdateStatus_BadID(t *testing.T) {
	h, _ := newAPIHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/update_status/abc", strings.NewReader(`{"status":"completado"}`))
	r = withTestSession(r, session.Session{UserID: "admin-user", Role: models.RoleAdmin})
	r = withURLParam(r, "id", "abc")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

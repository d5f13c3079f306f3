package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kendoworks/taller/internal/metrics"
	"github.com/kendoworks/taller/internal/middleware"
	"github.com/kendoworks/taller/internal/models"
	"github.com/kendoworks/taller/internal/repo"
)

// activityWindow is the fixed number of entries /api/activities returns.
const activityWindow = 20

// APIHandler serves the JSON endpoints that mirror the HTML views.
type APIHandler struct {
	Requests *repo.RequestRepo
	Activity *repo.ActivityRepo
	Users    *repo.UserRepo
}

// ListRequests returns requests scoped by role: admins see everything newest
// first, clients only their own.
func (h *APIHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	var (
		requests []models.RepairRequest
		err      error
	)
	if sess.IsAdmin() {
		requests, err = h.Requests.ListAll(r.Context())
	} else {
		requests, err = h.Requests.ListByUser(r.Context(), sess.UserID)
	}
	if err != nil {
		slog.Error("api: list requests", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if requests == nil {
		requests = []models.RepairRequest{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// ListActivities returns the latest activity entries, newest first.
func (h *APIHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Activity.Recent(r.Context(), activityWindow)
	if err != nil {
		slog.Error("api: list activities", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// ListUsers returns every account for the admin tooling. Password hashes
// never serialize.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		slog.Error("api: list users", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// UpdateStatus moves one request to a new status. The status must be one of
// the enumerated values; unknown ids return 404 and mutate nothing.
func (h *APIHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidStatus(input.Status) {
		JSONValidationError(w, "Estado inválido", map[string]string{
			"status": "must be one of pendiente, en_proceso, completado, cancelado",
		}, http.StatusBadRequest)
		return
	}

	req, err := h.Requests.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Solicitud no encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("api: get request", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := h.Requests.UpdateStatus(r.Context(), id, input.Status); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "Solicitud no encontrada", http.StatusNotFound)
			return
		}
		slog.Error("api: update status", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	sess, _ := middleware.GetSession(r.Context())
	description := fmt.Sprintf("Actualizó estado de solicitud #%d de %q a %q", id, req.Status, input.Status)
	if _, err := h.Activity.Log(r.Context(), sess.UserID, sess.Email, models.ActionStatusUpdate, description, middleware.ClientIP(r)); err != nil {
		slog.Error("log activity", "action", models.ActionStatusUpdate, "error", err)
	}
	metrics.IncStatusUpdate(input.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"new_status": input.Status,
		"message":    "Estado actualizado a " + input.Status,
	})
}

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kendoworks/taller/internal/metrics"
	"github.com/kendoworks/taller/internal/middleware"
	"github.com/kendoworks/taller/internal/models"
	"github.com/kendoworks/taller/internal/repo"
)

// PageHandler serves the HTML views: landing page, dashboards, and the
// request creation form.
type PageHandler struct {
	Requests *repo.RequestRepo
	Users    *repo.UserRepo
	Activity *repo.ActivityRepo
}

// Index renders the landing page and logs the visit when a session exists.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSession(r.Context()); ok {
		h.logActivity(r, sess.UserID, sess.Email, models.ActionViewHomepage, "Visitó la página principal")
	}
	render(w, r, "index.html", nil)
}

// Dashboard lists the session user's own requests.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())
	h.logActivity(r, sess.UserID, sess.Email, models.ActionViewDashboard, "Consultó el dashboard de solicitudes")

	requests, err := h.Requests.ListByUser(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("dashboard: list requests", "user_id", sess.UserID, "error", err)
		render(w, r, "dashboard.html", map[string]interface{}{
			"Flash": &Flash{Level: "error", Message: "No se pudieron cargar las solicitudes"},
		})
		return
	}

	render(w, r, "dashboard.html", map[string]interface{}{
		"Requests": requests,
	})
}

// Admin shows every request, every user, and the recent activity log.
func (h *PageHandler) Admin(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())
	h.logActivity(r, sess.UserID, sess.Email, models.ActionViewAdminPanel, "Accedió al panel de administración")

	requests, err := h.Requests.ListAll(r.Context())
	if err != nil {
		slog.Error("admin: list requests", "error", err)
		render(w, r, "admin.html", map[string]interface{}{
			"Flash": &Flash{Level: "error", Message: "No se pudieron cargar los datos"},
		})
		return
	}
	users, err := h.Users.List(r.Context())
	if err != nil {
		slog.Error("admin: list users", "error", err)
		render(w, r, "admin.html", map[string]interface{}{
			"Flash": &Flash{Level: "error", Message: "No se pudieron cargar los datos"},
		})
		return
	}
	activities, err := h.Activity.Recent(r.Context(), 15)
	if err != nil {
		slog.Error("admin: recent activity", "error", err)
		render(w, r, "admin.html", map[string]interface{}{
			"Flash": &Flash{Level: "error", Message: "No se pudieron cargar los datos"},
		})
		return
	}

	render(w, r, "admin.html", map[string]interface{}{
		"Requests":   requests,
		"Users":      users,
		"Activities": activities,
		"Statuses":   models.Statuses,
	})
}

// CreateRequestForm renders the new-request form.
func (h *PageHandler) CreateRequestForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "create_request.html", nil)
}

type createRequestInput struct {
	EquipmentType string `validate:"required,min=2,max=255"`
	Description   string `validate:"required,max=1000"`
}

// CreateRequest stores a new repair request for the session user with status
// pendiente and sends them back to the dashboard.
func (h *PageHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSession(r.Context())

	input := createRequestInput{
		EquipmentType: strings.TrimSpace(r.FormValue("equipment_type")),
		Description:   strings.TrimSpace(r.FormValue("description")),
	}
	if err := validator.New().Struct(input); err != nil {
		render(w, r, "create_request.html", map[string]interface{}{
			"Flash":         &Flash{Level: "error", Message: "Tipo de equipo y descripción son obligatorios"},
			"EquipmentType": input.EquipmentType,
			"Description":   input.Description,
		})
		return
	}

	req, err := h.Requests.Create(r.Context(), sess.UserID, sess.Email, input.EquipmentType, input.Description)
	if err != nil {
		slog.Error("create request", "user_id", sess.UserID, "error", err)
		render(w, r, "create_request.html", map[string]interface{}{
			"Flash":         &Flash{Level: "error", Message: "Error interno, intenta de nuevo"},
			"EquipmentType": input.EquipmentType,
			"Description":   input.Description,
		})
		return
	}

	h.logActivity(r, sess.UserID, sess.Email, models.ActionCreateRequest,
		fmt.Sprintf("Creó nueva solicitud: %s", req.EquipmentType))
	metrics.IncRequestCreated()

	setFlash(w, "success", "Solicitud de reparación creada exitosamente")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *PageHandler) logActivity(r *http.Request, userID, email, action, description string) {
	if _, err := h.Activity.Log(r.Context(), userID, email, action, description, middleware.ClientIP(r)); err != nil {
		slog.Error("log activity", "action", action, "error", err)
	}
}

// requireSessionPage redirects anonymous visitors to the login page.
func requireSessionPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetSession(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdminPage redirects non-admins to the login page with a flash.
func requireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok || !sess.IsAdmin() {
			setFlash(w, "error", "Acceso denegado. Se requieren privilegios de administrador.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/kendoworks/taller/internal/metrics"
	"github.com/kendoworks/taller/internal/middleware"
	"github.com/kendoworks/taller/internal/models"
	"github.com/kendoworks/taller/internal/repo"
	"github.com/kendoworks/taller/internal/session"
)

var errInvalidCredentials = errors.New("invalid credentials")

// AuthHandler serves login, registration, and logout, and records the
// corresponding activity entries.
type AuthHandler struct {
	Users    *repo.UserRepo
	Activity *repo.ActivityRepo
	Sessions *session.Manager
}

// authenticate matches email+password against the stored user.
func (h *AuthHandler) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}
	return user, nil
}

// setSessionCookie establishes the browser session for user.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, user *models.User) error {
	token, err := h.Sessions.Issue(session.Session{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
}

// LoginForm renders the login page. Already-authenticated users go straight
// to their dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSession(r.Context()); ok {
		http.Redirect(w, r, dashboardPath(sess), http.StatusFound)
		return
	}
	render(w, r, "login.html", nil)
}

// Login checks the submitted credentials, establishes the session, and
// redirects by role. Failed attempts are logged with the attempted email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := h.authenticate(r.Context(), email, password)
	if errors.Is(err, errInvalidCredentials) {
		h.logActivity(r, models.UnknownActor, email, models.ActionLoginFailed, "Intento fallido de inicio de sesión")
		metrics.IncLogin("failed")
		render(w, r, "login.html", map[string]interface{}{
			"Flash": &Flash{Level: "error", Message: "Email o contraseña incorrectos"},
			"Email": email,
		})
		return
	}
	if err != nil {
		slog.Error("login", "error", err)
		render(w, r, "login.html", map[string]interface{}{
			"Flash": &Flash{Level: "error", Message: "Error interno, intenta de nuevo"},
			"Email": email,
		})
		return
	}

	if err := h.setSessionCookie(w, user); err != nil {
		slog.Error("login: issue session", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	h.logActivity(r, user.ID, user.Email, models.ActionLogin, "Inició sesión en el sistema")
	metrics.IncLogin("success")
	setFlash(w, "success", fmt.Sprintf("¡Bienvenido %s!", user.Email))

	http.Redirect(w, r, dashboardPath(session.Session{Role: user.Role}), http.StatusFound)
}

// APILogin is the JSON variant used by the CLI: returns the bearer token and user.
func (h *AuthHandler) APILogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.authenticate(r.Context(), input.Email, input.Password)
	if errors.Is(err, errInvalidCredentials) {
		h.logActivity(r, models.UnknownActor, input.Email, models.ActionLoginFailed, "Intento fallido de inicio de sesión")
		metrics.IncLogin("failed")
		JSONError(w, "Email o contraseña incorrectos", http.StatusUnauthorized)
		return
	}
	if err != nil {
		slog.Error("api login", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	token, err := h.Sessions.Issue(session.Session{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	h.logActivity(r, user.ID, user.Email, models.ActionLogin, "Inició sesión en el sistema")
	metrics.IncLogin("success")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "register.html", nil)
}

type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Register validates the form, creates a client account, and logs it in.
// Nothing is created when the confirmation mismatches or the email exists.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	rerender := func(message string) {
		render(w, r, "register.html", map[string]interface{}{
			"Flash": &Flash{Level: "error", Message: message},
			"Email": email,
		})
	}

	if password != confirm {
		rerender("Las contraseñas no coinciden")
		return
	}
	input := registerInput{Email: email, Password: password}
	if err := validator.New().Struct(input); err != nil {
		rerender("Email o contraseña inválidos")
		return
	}

	if _, err := h.Users.GetByEmail(r.Context(), email); err == nil {
		rerender("Este email ya está registrado")
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		slog.Error("register: lookup email", "error", err)
		rerender("Error interno, intenta de nuevo")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("register: hash password", "error", err)
		rerender("Error interno, intenta de nuevo")
		return
	}

	user, err := h.createWithNextID(r.Context(), email, string(hash))
	if err != nil {
		if isUniqueViolation(err, "email") {
			rerender("Este email ya está registrado")
			return
		}
		slog.Error("register: create user", "error", err)
		rerender("Error interno, intenta de nuevo")
		return
	}

	if err := h.setSessionCookie(w, user); err != nil {
		slog.Error("register: issue session", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	h.logActivity(r, user.ID, user.Email, models.ActionRegister, "Nuevo usuario registrado en el sistema")
	setFlash(w, "success", "¡Registro exitoso! Bienvenido al sistema.")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// createWithNextID synthesizes the historical "user-<count+1>" id. The id can
// collide when two registrations race, so bump the suffix and retry a few
// times on a primary key violation.
func (h *AuthHandler) createWithNextID(ctx context.Context, email, hash string) (*models.User, error) {
	count, err := h.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	for attempt := 0; attempt < 3; attempt++ {
		id := fmt.Sprintf("user-%d", count+1+attempt)
		user, err := h.Users.Create(ctx, id, email, hash, models.RoleClient)
		if err == nil {
			return user, nil
		}
		if isUniqueViolation(err, "pkey") {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("register: exhausted id attempts for %s", email)
}

// isUniqueViolation reports whether err is a Postgres unique violation on a
// constraint whose name contains frag.
func isUniqueViolation(err error, frag string) bool {
	var e *pq.Error
	if errors.As(err, &e) {
		return e.Code == "23505" && strings.Contains(e.Constraint, frag)
	}
	return false
}

// Logout logs the action when a session exists, clears the cookie, and
// redirects home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSession(r.Context()); ok {
		h.logActivity(r, sess.UserID, sess.Email, models.ActionLogout, "Cerró sesión en el sistema")
	}
	clearSessionCookie(w)
	setFlash(w, "info", "Has cerrado sesión correctamente")
	http.Redirect(w, r, "/", http.StatusFound)
}

// logActivity appends an activity entry; failures are logged, never fatal.
func (h *AuthHandler) logActivity(r *http.Request, userID, email, action, description string) {
	if _, err := h.Activity.Log(r.Context(), userID, email, action, description, middleware.ClientIP(r)); err != nil {
		slog.Error("log activity", "action", action, "error", err)
	}
}

// dashboardPath returns the landing page for a session's role.
func dashboardPath(sess session.Session) string {
	if sess.IsAdmin() {
		return "/admin"
	}
	return "/dashboard"
}

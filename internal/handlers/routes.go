package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kendoworks/taller/internal/config"
	"github.com/kendoworks/taller/internal/middleware"
	"github.com/kendoworks/taller/internal/repo"
	"github.com/kendoworks/taller/internal/session"
)

// NewRouter wires repos, middleware, and every route of the app.
func NewRouter(cfg config.Config, database *sql.DB) *chi.Mux {
	users := repo.NewUserRepo(database)
	requests := repo.NewRequestRepo(database)
	activity := repo.NewActivityRepo(database)
	sessions := session.NewManager([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	auth := &AuthHandler{Users: users, Activity: activity, Sessions: sessions}
	pages := &PageHandler{Requests: requests, Users: users, Activity: activity}
	api := &APIHandler{Requests: requests, Activity: activity, Users: users}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Resolve(sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(StaticFS())))
	for _, path := range []string{"/favicon.ico", "/favicon.png", "/apple-touch-icon.png"} {
		r.Get(path, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/static/images/favicon.png", http.StatusFound)
		})
	}

	r.Get("/", pages.Index)

	// Credential endpoints share a per-IP rate limit.
	authLimiter := middleware.AuthRateLimiter()
	r.Get("/login", auth.LoginForm)
	r.Get("/register", auth.RegisterForm)
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middleware.MaxBytes(0))
		r.Post("/login", auth.Login)
		r.Post("/register", auth.Register)
		r.Post("/api/login", auth.APILogin)
	})
	r.Get("/logout", auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(requireSessionPage)
		r.Get("/dashboard", pages.Dashboard)
		r.Get("/create_request", pages.CreateRequestForm)
		r.With(middleware.MaxBytes(0)).Post("/create_request", pages.CreateRequest)
	})

	r.With(requireAdminPage).Get("/admin", pages.Admin)

	r.With(middleware.RequireSessionJSON).Get("/api/requests", api.ListRequests)
	r.With(middleware.RequireAdminJSON).Get("/api/activities", api.ListActivities)
	r.With(middleware.RequireAdminJSON).Get("/api/users", api.ListUsers)
	r.With(middleware.RequireAdminJSON, middleware.MaxBytes(0)).Post("/update_status/{id}", api.UpdateStatus)

	return r
}

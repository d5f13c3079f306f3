package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kendoworks/taller/internal/middleware"
)

//go:embed templates static
var assetsFS embed.FS

const flashCookie = "taller_flash"

// Flash is a one-shot user-facing message, carried across a redirect in a
// short-lived cookie. Level is "success", "error", or "info".
type Flash struct {
	Level   string
	Message string
}

// setFlash queues a flash message for the next rendered page.
func setFlash(w http.ResponseWriter, level, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(level + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(raw, "|")
	if !ok {
		return &Flash{Level: "info", Message: raw}
	}
	return &Flash{Level: level, Message: message}
}

// render executes the named page template inside the layout. The session (when
// present) and any pending flash are injected unless data already carries them;
// POST handlers that re-render pass the flash directly instead of a cookie.
func render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["Flash"]; !ok {
		if f := popFlash(w, r); f != nil {
			data["Flash"] = f
		}
	}
	if _, ok := data["Session"]; !ok {
		if sess, ok := middleware.GetSession(r.Context()); ok {
			data["Session"] = sess
		}
	}

	t, err := template.ParseFS(assetsFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		slog.Error("template parse", "template", name, "error", err)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("template execute", "template", name, "error", err)
	}
}

// StaticFS returns the embedded static assets rooted at static/.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(assetsFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kendoworks/taller/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession returns ctx carrying s. Exported for handler tests.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetSession returns the authenticated session attached by Resolve, if any.
func GetSession(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok
}

// Resolve reads the session token from the cookie (browser) or the
// Authorization header (CLI) and, when valid, attaches the typed session to
// the request context. It never rejects: route gates decide what an absent
// session means for each endpoint.
func Resolve(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(session.CookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					token = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if token != "" {
				if sess, err := m.Parse(token); err == nil {
					r = r.WithContext(WithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSessionJSON rejects unauthenticated requests with a 401 JSON body.
func RequireSessionJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); !ok {
			writeJSONError(w, "No autenticado", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminJSON rejects requests without an admin session with a 403 JSON body.
func RequireAdminJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSession(r.Context())
		if !ok || !sess.IsAdmin() {
			writeJSONError(w, "No autorizado", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

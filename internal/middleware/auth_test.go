package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kendoworks/taller/internal/models"
	"github.com/kendoworks/taller/internal/session"
)

func testManager() *session.Manager {
	return session.NewManager([]byte("middleware-test-secret"), time.Hour)
}

func issueToken(t *testing.T, m *session.Manager, sess session.Session) string {
	t.Helper()
	token, err := m.Issue(sess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

// echoSession records whether a session reached the inner handler.
func echoSession(got *session.Session, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = GetSession(r.Context())
	})
}

func TestResolve_Cookie(t *testing.T) {
	m := testManager()
	token := issueToken(t, m, session.Session{UserID: "client-user", Email: "cliente@kendo.com", Role: models.RoleClient})

	var got session.Session
	var ok bool
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	Resolve(m)(echoSession(&got, &ok)).ServeHTTP(httptest.NewRecorder(), r)

	if !ok {
		t.Fatal("session not resolved from cookie")
	}
	if got.UserID != "client-user" || got.Role != models.RoleClient {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestResolve_BearerHeader(t *testing.T) {
	m := testManager()
	token := issueToken(t, m, session.Session{UserID: "admin-user", Role: models.RoleAdmin})

	var got session.Session
	var ok bool
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	Resolve(m)(echoSession(&got, &ok)).ServeHTTP(httptest.NewRecorder(), r)

	if !ok || !got.IsAdmin() {
		t.Errorf("session not resolved from header: ok=%v sess=%+v", ok, got)
	}
}

func TestResolve_InvalidTokenIsAnonymous(t *testing.T) {
	m := testManager()

	var got session.Session
	var ok bool
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-token"})
	Resolve(m)(echoSession(&got, &ok)).ServeHTTP(httptest.NewRecorder(), r)

	// Resolve never rejects; the gates do.
	if ok {
		t.Errorf("invalid token produced a session: %+v", got)
	}
}

func TestRequireSessionJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	RequireSessionJSON(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithSession(r.Context(), session.Session{UserID: "client-user", Role: models.RoleClient}))
	RequireSessionJSON(next).ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Errorf("authenticated: status = %d, want 204", rec.Code)
	}
}

func TestRequireAdminJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithSession(r.Context(), session.Session{UserID: "client-user", Role: models.RoleClient}))
	RequireAdminJSON(next).ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Errorf("client: status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithSession(r.Context(), session.Session{UserID: "admin-user", Role: models.RoleAdmin}))
	RequireAdminJSON(next).ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Errorf("admin: status = %d, want 204", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "10.0.0.5:43210", nil, "10.0.0.5"},
		{"forwarded for", "10.0.0.5:43210", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", "10.0.0.5:43210", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPRateLimiter_BurstThenReject(t *testing.T) {
	limiter := NewIPRateLimiter(0.1, 2)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		limiter.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	limiter.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over burst: status = %d, want 429", rec.Code)
	}
}

func TestIPRateLimiter_PerIP(t *testing.T) {
	limiter := NewIPRateLimiter(0.1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	first := httptest.NewRequest(http.MethodPost, "/login", nil)
	first.RemoteAddr = "10.0.0.1:1000"
	limiter.Middleware(next).ServeHTTP(httptest.NewRecorder(), first)

	// A different IP has its own bucket.
	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.2:1000"
	rec := httptest.NewRecorder()
	limiter.Middleware(next).ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("second IP: status = %d, want 200", rec.Code)
	}
}

package session

import (
	"testing"
	"time"

	"github.com/kendoworks/taller/internal/models"
)

func TestManager_IssueParse(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	token, err := m.Issue(Session{UserID: "admin-user", Email: "admin@kendo.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sess, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sess.UserID != "admin-user" || sess.Email != "admin@kendo.com" || sess.Role != models.RoleAdmin {
		t.Errorf("unexpected session: %+v", sess)
	}
	if !sess.IsAdmin() {
		t.Error("IsAdmin: got false")
	}
}

func TestManager_ParseWrongSecret(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	token, err := m.Issue(Session{UserID: "client-user", Email: "cliente@kendo.com", Role: models.RoleClient})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewManager([]byte("other-secret"), time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Error("expected error parsing token signed with different secret")
	}
}

func TestManager_ParseExpired(t *testing.T) {
	m := NewManager([]byte("test-secret"), -time.Minute)
	token, err := m.Issue(Session{UserID: "client-user", Email: "cliente@kendo.com", Role: models.RoleClient})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Error("expected error parsing expired token")
	}
}

func TestManager_ParseGarbage(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	if _, err := m.Parse("not-a-token"); err == nil {
		t.Error("expected error parsing garbage")
	}
}

func TestSession_IsAdmin(t *testing.T) {
	if (Session{Role: models.RoleClient}).IsAdmin() {
		t.Error("client session reported admin")
	}
	if !(Session{Role: models.RoleAdmin}).IsAdmin() {
		t.Error("admin session not reported admin")
	}
}

// Package session issues and verifies the signed tokens that bind a request
// to an authenticated identity and role. Browser flows carry the token in an
// HttpOnly cookie; the CLI sends it as a Bearer token.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kendoworks/taller/internal/models"
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "taller_session"

var ErrInvalidToken = errors.New("invalid session token")

// Session is the authenticated identity threaded through handlers. Handlers
// never touch raw JWT claims.
type Session struct {
	UserID string
	Email  string
	Role   string
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Manager signs and parses session tokens with an HS256 secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// TTL returns the session lifetime, used for the cookie Max-Age.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token carrying the session identity.
func (m *Manager) Issue(s Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   s.UserID,
		"email": s.Email,
		"role":  s.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the token signature and expiry and returns the session.
func (m *Manager) Parse(tokenStr string) (Session, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	sess := Session{
		UserID: stringClaim(claims, "sub"),
		Email:  stringClaim(claims, "email"),
		Role:   stringClaim(claims, "role"),
	}
	if sess.UserID == "" || sess.Role == "" {
		return Session{}, ErrInvalidToken
	}
	return sess, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

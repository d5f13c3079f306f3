package models

// Tracked action kinds. login_failed records the attempted email with actor
// id "unknown" since the identity was never established.
const (
	ActionLogin          = "login"
	ActionLoginFailed    = "login_failed"
	ActionRegister       = "register"
	ActionCreateRequest  = "create_request"
	ActionStatusUpdate   = "status_update"
	ActionViewDashboard  = "view_dashboard"
	ActionViewAdminPanel = "view_admin_panel"
	ActionViewHomepage   = "view_homepage"
	ActionLogout         = "logout"
)

// UnknownActor is the actor id recorded for failed login attempts.
const UnknownActor = "unknown"

// ActivityEntry is one append-only audit record. Entries are never mutated
// or deleted; retrieval is always newest first.
type ActivityEntry struct {
	ID          int       `json:"id"`
	UserID      string    `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Timestamp   Timestamp `json:"timestamp"`
	IPAddress   string    `json:"ip_address"`
}

package models

// Repair request lifecycle. New requests always start as StatusPending;
// only administrators move them forward.
const (
	StatusPending    = "pendiente"
	StatusInProgress = "en_proceso"
	StatusCompleted  = "completado"
	StatusCanceled   = "cancelado"
)

// Statuses lists every valid request status, in lifecycle order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCanceled}

// ValidStatus reports whether s is one of the enumerated request statuses.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// RepairRequest is a client-submitted work ticket. UserEmail is a denormalized
// copy of the owner's email so listings render without a join.
type RepairRequest struct {
	ID            int       `json:"id"`
	UserID        string    `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	EquipmentType string    `json:"equipment_type"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	CreatedAt     Timestamp `json:"created_at"`
}

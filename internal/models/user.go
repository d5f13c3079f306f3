package models

// RoleClient users submit repair requests and see only their own.
const RoleClient = "client"

// RoleAdmin users manage every request and see the activity log.
const RoleAdmin = "admin"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    Timestamp `json:"created_at"`
}

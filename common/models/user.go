package models

import "time"

// Role gates mutations and visibility of unpublished exhibits and auctions
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleVisitor Role = "visitor"
)

// User is a signed-in identity plus its catalog role
// Maps to: app_user table
type User struct {
	UserID      string    `db:"user_id" json:"user_id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
	PhotoURL    string    `db:"photo_url" json:"photo_url"`
	Role        Role      `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user may mutate the catalog
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session is established at sign-in and cleared at sign-out. It is read-only
// once resolved for a request.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

package models

import "time"

// DisplayGroup is an administrator-defined grouping for curated browsing
// Maps to: display_group table
type DisplayGroup struct {
	GroupID     string `db:"group_id" json:"group_id"`
	Name        string `db:"name" json:"name" validate:"required,max=100"`
	Description string `db:"description" json:"description"`
	// Lower sorts first
	SortOrder int    `db:"sort_order" json:"sort_order"`
	Active    bool   `db:"active" json:"active"`
	Color     string `db:"color" json:"color" validate:"omitempty,hexcolor"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// Exhibit is a curated, time-boxed presentation of artifacts
// Maps to: exhibit table
type Exhibit struct {
	ExhibitID   string     `db:"exhibit_id" json:"exhibit_id"`
	Name        string     `db:"name" json:"name" validate:"required,max=200"`
	Description string     `db:"description" json:"description"`
	StartDate   *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty" validate:"omitempty,gtefield=StartDate"`
	Location    string     `db:"location" json:"location"`
	Curator     string     `db:"curator" json:"curator"`
	Published   bool       `db:"published" json:"published"`
	Featured    bool       `db:"featured" json:"featured"`

	// No referential integrity; ids that no longer resolve are skipped on load
	ArtifactIDs []string `db:"artifact_ids" json:"artifact_ids"`
	HeaderImage string   `db:"header_image" json:"header_image" validate:"omitempty,image_ref"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExhibitDetail is an exhibit with its resolved artifacts
type ExhibitDetail struct {
	Exhibit
	Artifacts []Artifact `json:"artifacts"`
}

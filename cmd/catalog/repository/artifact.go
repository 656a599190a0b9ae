package repository

import (
	"context"

	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/models"
	"github.com/jackc/pgx/v5"
)

const artifactColumns = `
	artifact_id, name, category, manufacturer, model, serial_number, year,
	operating_system, description, condition, display_group, location,
	estimated_value, starting_bid, acquisition_date, donor, notes,
	task_status, task_priority, images, created_by, created_at, updated_at`

// ArtifactRepository handles database operations for artifacts
type ArtifactRepository struct {
	db *db.DB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *db.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

func scanArtifact(row pgx.Row) (*models.Artifact, error) {
	a := &models.Artifact{}
	err := row.Scan(
		&a.ArtifactID,
		&a.Name,
		&a.Category,
		&a.Manufacturer,
		&a.Model,
		&a.SerialNumber,
		&a.Year,
		&a.OperatingSystem,
		&a.Description,
		&a.Condition,
		&a.DisplayGroup,
		&a.Location,
		&a.EstimatedValue,
		&a.StartingBid,
		&a.AcquisitionDate,
		&a.Donor,
		&a.Notes,
		&a.TaskStatus,
		&a.TaskPriority,
		&a.Images,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Images == nil {
		a.Images = []string{}
	}
	return a, nil
}

func collectArtifacts(rows pgx.Rows) ([]models.Artifact, error) {
	defer rows.Close()

	artifacts := make([]models.Artifact, 0)
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, storeError("scan artifact", err)
		}
		artifacts = append(artifacts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate artifacts", err)
	}
	return artifacts, nil
}

// Create inserts a new artifact
func (r *ArtifactRepository) Create(ctx context.Context, a *models.Artifact) error {
	query := `
		INSERT INTO artifact (` + artifactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := r.db.Exec(ctx, query,
		a.ArtifactID,
		a.Name,
		a.Category,
		a.Manufacturer,
		a.Model,
		a.SerialNumber,
		a.Year,
		a.OperatingSystem,
		a.Description,
		a.Condition,
		a.DisplayGroup,
		a.Location,
		a.EstimatedValue,
		a.StartingBid,
		a.AcquisitionDate,
		a.Donor,
		a.Notes,
		a.TaskStatus,
		a.TaskPriority,
		nonNil(a.Images),
		a.CreatedBy,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return storeError("create artifact", err)
	}
	return nil
}

// GetByID retrieves an artifact by its ID
func (r *ArtifactRepository) GetByID(ctx context.Context, id string) (*models.Artifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM artifact WHERE artifact_id = $1`

	a, err := scanArtifact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("get artifact", err)
	}
	return a, nil
}

// List returns every artifact, newest first
func (r *ArtifactRepository) List(ctx context.Context) ([]models.Artifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM artifact ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list artifacts", err)
	}
	return collectArtifacts(rows)
}

// GetByIDs returns the artifacts that exist among ids, in no particular order
func (r *ArtifactRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Artifact, error) {
	if len(ids) == 0 {
		return []models.Artifact{}, nil
	}

	query := `SELECT ` + artifactColumns + ` FROM artifact WHERE artifact_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, storeError("get artifacts", err)
	}
	return collectArtifacts(rows)
}

// Update replaces all mutable fields of an artifact
func (r *ArtifactRepository) Update(ctx context.Context, a *models.Artifact) error {
	query := `
		UPDATE artifact SET
			name = $2, category = $3, manufacturer = $4, model = $5,
			serial_number = $6, year = $7, operating_system = $8,
			description = $9, condition = $10, display_group = $11,
			location = $12, estimated_value = $13, starting_bid = $14,
			acquisition_date = $15, donor = $16, notes = $17,
			task_status = $18, task_priority = $19, images = $20,
			updated_at = $21
		WHERE artifact_id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		a.ArtifactID,
		a.Name,
		a.Category,
		a.Manufacturer,
		a.Model,
		a.SerialNumber,
		a.Year,
		a.OperatingSystem,
		a.Description,
		a.Condition,
		a.DisplayGroup,
		a.Location,
		a.EstimatedValue,
		a.StartingBid,
		a.AcquisitionDate,
		a.Donor,
		a.Notes,
		a.TaskStatus,
		a.TaskPriority,
		nonNil(a.Images),
		a.UpdatedAt,
	)
	if err != nil {
		return storeError("update artifact", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("update artifact", pgx.ErrNoRows)
	}
	return nil
}

// Delete removes an artifact and returns the image references it held
func (r *ArtifactRepository) Delete(ctx context.Context, id string) ([]string, error) {
	query := `DELETE FROM artifact WHERE artifact_id = $1 RETURNING images`

	var images []string
	if err := r.db.QueryRow(ctx, query, id).Scan(&images); err != nil {
		return nil, storeError("delete artifact", err)
	}
	return images, nil
}

// CountByDisplayGroup counts artifacts referencing a display group by name
func (r *ArtifactRepository) CountByDisplayGroup(ctx context.Context, name string) (int, error) {
	query := `SELECT COUNT(*) FROM artifact WHERE display_group = $1`

	var n int
	if err := r.db.QueryRow(ctx, query, name).Scan(&n); err != nil {
		return 0, storeError("count artifacts by display group", err)
	}
	return n, nil
}

// RenameDisplayGroup moves every artifact from one group name to another
func (r *ArtifactRepository) RenameDisplayGroup(ctx context.Context, from, to string) (int64, error) {
	query := `UPDATE artifact SET display_group = $2, updated_at = NOW() WHERE display_group = $1`

	tag, err := r.db.Exec(ctx, query, from, to)
	if err != nil {
		return 0, storeError("rename display group on artifacts", err)
	}
	return tag.RowsAffected(), nil
}

// CountImageRefs counts artifacts still holding an image reference
func (r *ArtifactRepository) CountImageRefs(ctx context.Context, ref string) (int, error) {
	query := `SELECT COUNT(*) FROM artifact WHERE $1 = ANY(images)`

	var n int
	if err := r.db.QueryRow(ctx, query, ref).Scan(&n); err != nil {
		return 0, storeError("count image references", err)
	}
	return n, nil
}

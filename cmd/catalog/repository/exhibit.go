package repository

import (
	"context"

	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/models"
	"github.com/jackc/pgx/v5"
)

const exhibitColumns = `
	exhibit_id, name, description, start_date, end_date, location, curator,
	published, featured, artifact_ids, header_image, created_by, created_at, updated_at`

// ExhibitRepository handles database operations for exhibits
type ExhibitRepository struct {
	db *db.DB
}

// NewExhibitRepository creates a new exhibit repository
func NewExhibitRepository(db *db.DB) *ExhibitRepository {
	return &ExhibitRepository{db: db}
}

func scanExhibit(row pgx.Row) (*models.Exhibit, error) {
	e := &models.Exhibit{}
	err := row.Scan(
		&e.ExhibitID,
		&e.Name,
		&e.Description,
		&e.StartDate,
		&e.EndDate,
		&e.Location,
		&e.Curator,
		&e.Published,
		&e.Featured,
		&e.ArtifactIDs,
		&e.HeaderImage,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.ArtifactIDs == nil {
		e.ArtifactIDs = []string{}
	}
	return e, nil
}

// Create inserts a new exhibit
func (r *ExhibitRepository) Create(ctx context.Context, e *models.Exhibit) error {
	query := `
		INSERT INTO exhibit (` + exhibitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		e.ExhibitID,
		e.Name,
		e.Description,
		e.StartDate,
		e.EndDate,
		e.Location,
		e.Curator,
		e.Published,
		e.Featured,
		nonNil(e.ArtifactIDs),
		e.HeaderImage,
		e.CreatedBy,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return storeError("create exhibit", err)
	}
	return nil
}

// GetByID retrieves an exhibit by its ID
func (r *ExhibitRepository) GetByID(ctx context.Context, id string) (*models.Exhibit, error) {
	query := `SELECT ` + exhibitColumns + ` FROM exhibit WHERE exhibit_id = $1`

	e, err := scanExhibit(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("get exhibit", err)
	}
	return e, nil
}

// List returns exhibits, featured first then by start date
func (r *ExhibitRepository) List(ctx context.Context, publishedOnly bool) ([]models.Exhibit, error) {
	query := `
		SELECT ` + exhibitColumns + `
		FROM exhibit
		WHERE ($1 = FALSE OR published = TRUE)
		ORDER BY featured DESC, start_date DESC NULLS LAST, name ASC
	`

	rows, err := r.db.Query(ctx, query, publishedOnly)
	if err != nil {
		return nil, storeError("list exhibits", err)
	}
	defer rows.Close()

	exhibits := make([]models.Exhibit, 0)
	for rows.Next() {
		e, err := scanExhibit(rows)
		if err != nil {
			return nil, storeError("scan exhibit", err)
		}
		exhibits = append(exhibits, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate exhibits", err)
	}
	return exhibits, nil
}

// Update replaces the mutable fields of an exhibit
func (r *ExhibitRepository) Update(ctx context.Context, e *models.Exhibit) error {
	query := `
		UPDATE exhibit SET
			name = $2, description = $3, start_date = $4, end_date = $5,
			location = $6, curator = $7, published = $8, featured = $9,
			artifact_ids = $10, header_image = $11, updated_at = $12
		WHERE exhibit_id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		e.ExhibitID,
		e.Name,
		e.Description,
		e.StartDate,
		e.EndDate,
		e.Location,
		e.Curator,
		e.Published,
		e.Featured,
		nonNil(e.ArtifactIDs),
		e.HeaderImage,
		e.UpdatedAt,
	)
	if err != nil {
		return storeError("update exhibit", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("update exhibit", pgx.ErrNoRows)
	}
	return nil
}

// Delete removes an exhibit
func (r *ExhibitRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exhibit WHERE exhibit_id = $1`, id)
	if err != nil {
		return storeError("delete exhibit", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("delete exhibit", pgx.ErrNoRows)
	}
	return nil
}

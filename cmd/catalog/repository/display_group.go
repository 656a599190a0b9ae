package repository

import (
	"context"

	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/models"
	"github.com/jackc/pgx/v5"
)

// DisplayGroupRepository handles database operations for display groups
type DisplayGroupRepository struct {
	db *db.DB
}

// NewDisplayGroupRepository creates a new display group repository
func NewDisplayGroupRepository(db *db.DB) *DisplayGroupRepository {
	return &DisplayGroupRepository{db: db}
}

func scanDisplayGroup(row pgx.Row) (*models.DisplayGroup, error) {
	g := &models.DisplayGroup{}
	err := row.Scan(
		&g.GroupID,
		&g.Name,
		&g.Description,
		&g.SortOrder,
		&g.Active,
		&g.Color,
		&g.CreatedBy,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new display group
func (r *DisplayGroupRepository) Create(ctx context.Context, g *models.DisplayGroup) error {
	query := `
		INSERT INTO display_group (group_id, name, description, sort_order, active, color, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		g.GroupID,
		g.Name,
		g.Description,
		g.SortOrder,
		g.Active,
		g.Color,
		g.CreatedBy,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return storeError("create display group", err)
	}
	return nil
}

// GetByID retrieves a display group by its ID
func (r *DisplayGroupRepository) GetByID(ctx context.Context, id string) (*models.DisplayGroup, error) {
	query := `
		SELECT group_id, name, description, sort_order, active, color, created_by, created_at, updated_at
		FROM display_group
		WHERE group_id = $1
	`

	g, err := scanDisplayGroup(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("get display group", err)
	}
	return g, nil
}

// GetByName retrieves a display group by name, ignoring case
func (r *DisplayGroupRepository) GetByName(ctx context.Context, name string) (*models.DisplayGroup, error) {
	query := `
		SELECT group_id, name, description, sort_order, active, color, created_by, created_at, updated_at
		FROM display_group
		WHERE LOWER(name) = LOWER($1)
	`

	g, err := scanDisplayGroup(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, storeError("get display group by name", err)
	}
	return g, nil
}

// List returns display groups in presentation order
func (r *DisplayGroupRepository) List(ctx context.Context) ([]models.DisplayGroup, error) {
	query := `
		SELECT group_id, name, description, sort_order, active, color, created_by, created_at, updated_at
		FROM display_group
		ORDER BY sort_order ASC, name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list display groups", err)
	}
	defer rows.Close()

	groups := make([]models.DisplayGroup, 0)
	for rows.Next() {
		g, err := scanDisplayGroup(rows)
		if err != nil {
			return nil, storeError("scan display group", err)
		}
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate display groups", err)
	}
	return groups, nil
}

// Update replaces the mutable fields of a display group
func (r *DisplayGroupRepository) Update(ctx context.Context, g *models.DisplayGroup) error {
	query := `
		UPDATE display_group
		SET name = $2, description = $3, sort_order = $4, active = $5, color = $6, updated_at = $7
		WHERE group_id = $1
	`

	tag, err := r.db.Exec(ctx, query, g.GroupID, g.Name, g.Description, g.SortOrder, g.Active, g.Color, g.UpdatedAt)
	if err != nil {
		return storeError("update display group", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("update display group", pgx.ErrNoRows)
	}
	return nil
}

// Delete removes a display group
func (r *DisplayGroupRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM display_group WHERE group_id = $1`, id)
	if err != nil {
		return storeError("delete display group", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("delete display group", pgx.ErrNoRows)
	}
	return nil
}

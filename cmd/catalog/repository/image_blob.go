package repository

import (
	"context"

	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/models"
)

// ImageBlobRepository handles content-addressed image storage
type ImageBlobRepository struct {
	db *db.DB
}

// NewImageBlobRepository creates a new image blob repository
func NewImageBlobRepository(db *db.DB) *ImageBlobRepository {
	return &ImageBlobRepository{db: db}
}

// Create inserts a blob; storing identical content twice is a no-op
func (r *ImageBlobRepository) Create(ctx context.Context, blob *models.ImageBlob) error {
	query := `
		INSERT INTO image_blob (blob_id, media_type, size_bytes, content, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (blob_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		blob.BlobID,
		blob.MediaType,
		blob.SizeBytes,
		blob.Content,
		blob.CreatedBy,
		blob.CreatedAt,
	)
	if err != nil {
		return storeError("create image blob", err)
	}
	return nil
}

// GetByID retrieves a blob with its content
func (r *ImageBlobRepository) GetByID(ctx context.Context, id string) (*models.ImageBlob, error) {
	query := `
		SELECT blob_id, media_type, size_bytes, content, created_by, created_at
		FROM image_blob
		WHERE blob_id = $1
	`

	blob := &models.ImageBlob{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&blob.BlobID,
		&blob.MediaType,
		&blob.SizeBytes,
		&blob.Content,
		&blob.CreatedBy,
		&blob.CreatedAt,
	)
	if err != nil {
		return nil, storeError("get image blob", err)
	}
	return blob, nil
}

// Exists checks if a blob exists
func (r *ImageBlobRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM image_blob WHERE blob_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, storeError("check image blob", err)
	}
	return exists, nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (r *ImageBlobRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM image_blob WHERE blob_id = $1`, id)
	if err != nil {
		return false, storeError("delete image blob", err)
	}
	return tag.RowsAffected() > 0, nil
}

package repository

import (
	"context"

	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/models"
	"github.com/jackc/pgx/v5"
)

const auctionColumns = `
	auction_id, name, description, start_date, end_date, min_bid_increment,
	buy_now, published, featured, artifact_ids, header_image, created_by, created_at, updated_at`

// AuctionRepository handles database operations for auctions
type AuctionRepository struct {
	db *db.DB
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(db *db.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func scanAuction(row pgx.Row) (*models.Auction, error) {
	a := &models.Auction{}
	err := row.Scan(
		&a.AuctionID,
		&a.Name,
		&a.Description,
		&a.StartDate,
		&a.EndDate,
		&a.MinBidIncrement,
		&a.BuyNow,
		&a.Published,
		&a.Featured,
		&a.ArtifactIDs,
		&a.HeaderImage,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.ArtifactIDs == nil {
		a.ArtifactIDs = []string{}
	}
	return a, nil
}

// Create inserts a new auction
func (r *AuctionRepository) Create(ctx context.Context, a *models.Auction) error {
	query := `
		INSERT INTO auction (` + auctionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		a.AuctionID,
		a.Name,
		a.Description,
		a.StartDate,
		a.EndDate,
		a.MinBidIncrement,
		a.BuyNow,
		a.Published,
		a.Featured,
		nonNil(a.ArtifactIDs),
		a.HeaderImage,
		a.CreatedBy,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return storeError("create auction", err)
	}
	return nil
}

// GetByID retrieves an auction by its ID
func (r *AuctionRepository) GetByID(ctx context.Context, id string) (*models.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auction WHERE auction_id = $1`

	a, err := scanAuction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("get auction", err)
	}
	return a, nil
}

// List returns auctions, featured first then soonest ending
func (r *AuctionRepository) List(ctx context.Context, publishedOnly bool) ([]models.Auction, error) {
	query := `
		SELECT ` + auctionColumns + `
		FROM auction
		WHERE ($1 = FALSE OR published = TRUE)
		ORDER BY featured DESC, end_date ASC, name ASC
	`

	rows, err := r.db.Query(ctx, query, publishedOnly)
	if err != nil {
		return nil, storeError("list auctions", err)
	}
	defer rows.Close()

	auctions := make([]models.Auction, 0)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, storeError("scan auction", err)
		}
		auctions = append(auctions, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate auctions", err)
	}
	return auctions, nil
}

// Update replaces the mutable fields of an auction
func (r *AuctionRepository) Update(ctx context.Context, a *models.Auction) error {
	query := `
		UPDATE auction SET
			name = $2, description = $3, start_date = $4, end_date = $5,
			min_bid_increment = $6, buy_now = $7, published = $8, featured = $9,
			artifact_ids = $10, header_image = $11, updated_at = $12
		WHERE auction_id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		a.AuctionID,
		a.Name,
		a.Description,
		a.StartDate,
		a.EndDate,
		a.MinBidIncrement,
		a.BuyNow,
		a.Published,
		a.Featured,
		nonNil(a.ArtifactIDs),
		a.HeaderImage,
		a.UpdatedAt,
	)
	if err != nil {
		return storeError("update auction", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("update auction", pgx.ErrNoRows)
	}
	return nil
}

// Delete removes an auction
func (r *AuctionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM auction WHERE auction_id = $1`, id)
	if err != nil {
		return storeError("delete auction", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("delete auction", pgx.ErrNoRows)
	}
	return nil
}

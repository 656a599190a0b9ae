package repository

import (
	"context"

	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/models"
)

// BidRepository is the durable bid ledger; rows are never updated
type BidRepository struct {
	db *db.DB
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *db.DB) *BidRepository {
	return &BidRepository{db: db}
}

// AppendBid records an accepted bid
func (r *BidRepository) AppendBid(ctx context.Context, b *models.Bid) error {
	query := `
		INSERT INTO bid (bid_id, auction_id, artifact_id, bidder_id, bidder_name, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		b.BidID,
		b.AuctionID,
		b.ArtifactID,
		b.BidderID,
		b.BidderName,
		b.Amount,
		b.CreatedAt,
	)
	if err != nil {
		return storeError("append bid", err)
	}
	return nil
}

// ListBids returns every bid for one artifact in one auction, oldest first
func (r *BidRepository) ListBids(ctx context.Context, key models.BidKey) ([]models.Bid, error) {
	query := `
		SELECT bid_id, auction_id, artifact_id, bidder_id, bidder_name, amount, created_at
		FROM bid
		WHERE auction_id = $1 AND artifact_id = $2
		ORDER BY created_at ASC, bid_id ASC
	`

	rows, err := r.db.Query(ctx, query, key.AuctionID, key.ArtifactID)
	if err != nil {
		return nil, storeError("list bids", err)
	}
	defer rows.Close()

	bids := make([]models.Bid, 0)
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(
			&b.BidID,
			&b.AuctionID,
			&b.ArtifactID,
			&b.BidderID,
			&b.BidderName,
			&b.Amount,
			&b.CreatedAt,
		); err != nil {
			return nil, storeError("scan bid", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate bids", err)
	}
	return bids, nil
}

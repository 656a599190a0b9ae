package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an append-only bid on one artifact within one auction
// Maps to: bid table
type Bid struct {
	BidID      string          `db:"bid_id" json:"bid_id"`
	AuctionID  string          `db:"auction_id" json:"auction_id"`
	ArtifactID string          `db:"artifact_id" json:"artifact_id"`
	BidderID   string          `db:"bidder_id" json:"bidder_id"`
	BidderName string          `db:"bidder_name" json:"bidder_name"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// BidKey identifies the independent bidding stream of one artifact in one auction
type BidKey struct {
	AuctionID  string `json:"auction_id"`
	ArtifactID string `json:"artifact_id"`
}

func (k BidKey) String() string {
	return fmt.Sprintf("%s:%s", k.AuctionID, k.ArtifactID)
}

// Key returns the stream the bid belongs to
func (b *Bid) Key() BidKey {
	return BidKey{AuctionID: b.AuctionID, ArtifactID: b.ArtifactID}
}

// Bidder is the authenticated identity placing a bid
type Bidder struct {
	ID          string
	DisplayName string
}

// HighestBidEvent is pushed to observers whenever the highest bid for a key
// may have changed. Receiving the same event twice is harmless.
type HighestBidEvent struct {
	AuctionID  string    `json:"auction_id"`
	ArtifactID string    `json:"artifact_id"`
	Highest    *Bid      `json:"highest,omitempty"`
	MinimumBid string    `json:"minimum_next_bid"`
	BidCount   int       `json:"bid_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// BidSummary is the bidding state of one artifact in one auction
type BidSummary struct {
	AuctionID      string          `json:"auction_id"`
	ArtifactID     string          `json:"artifact_id"`
	Status         AuctionStatus   `json:"status"`
	Highest        *Bid            `json:"highest,omitempty"`
	MinimumNextBid decimal.Decimal `json:"minimum_next_bid"`
	Bids           []Bid           `json:"bids"`
}

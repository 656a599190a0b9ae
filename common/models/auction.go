package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is derived from the current time and the auction window
type AuctionStatus string

const (
	AuctionUpcoming AuctionStatus = "upcoming"
	AuctionActive   AuctionStatus = "active"
	AuctionEnded    AuctionStatus = "ended"
)

// Auction is a time-boxed bidding event; each referenced artifact is bid on
// independently.
// Maps to: auction table
type Auction struct {
	AuctionID       string          `db:"auction_id" json:"auction_id"`
	Name            string          `db:"name" json:"name" validate:"required,max=200"`
	Description     string          `db:"description" json:"description"`
	StartDate       time.Time       `db:"start_date" json:"start_date" validate:"required"`
	EndDate         time.Time       `db:"end_date" json:"end_date" validate:"required,gtefield=StartDate"`
	MinBidIncrement decimal.Decimal `db:"min_bid_increment" json:"min_bid_increment"`
	BuyNow          bool            `db:"buy_now" json:"buy_now"`
	Published       bool            `db:"published" json:"published"`
	Featured        bool            `db:"featured" json:"featured"`
	ArtifactIDs     []string        `db:"artifact_ids" json:"artifact_ids"`
	HeaderImage     string          `db:"header_image" json:"header_image" validate:"omitempty,image_ref"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Includes reports whether the artifact is offered in this auction
func (a *Auction) Includes(artifactID string) bool {
	for _, id := range a.ArtifactIDs {
		if id == artifactID {
			return true
		}
	}
	return false
}

// AuctionDetail is an auction with its resolved artifacts and status
type AuctionDetail struct {
	Auction
	Status    AuctionStatus `json:"status"`
	Artifacts []Artifact    `json:"artifacts"`
}

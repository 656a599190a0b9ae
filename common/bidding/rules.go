package bidding

import (
	"time"

	"github.com/cmuseum/catalog/common/models"
	"github.com/shopspring/decimal"
)

// Status derives the auction status at now. Both window bounds are inclusive.
func Status(auction *models.Auction, now time.Time) models.AuctionStatus {
	switch {
	case now.Before(auction.StartDate):
		return models.AuctionUpcoming
	case now.After(auction.EndDate):
		return models.AuctionEnded
	default:
		return models.AuctionActive
	}
}

// MinimumNextBid is the larger of the artifact's starting value and the
// current highest bid plus the auction increment. currentHighest is zero when
// there are no bids.
func MinimumNextBid(artifact *models.Artifact, auction *models.Auction, currentHighest decimal.Decimal) decimal.Decimal {
	return decimal.Max(artifact.StartingValue(), currentHighest.Add(auction.MinBidIncrement))
}

// Highest returns the standing bid: the largest amount, with ties going to the
// earliest timestamp and then to the earliest position in bids. Nil when bids
// is empty.
func Highest(bids []models.Bid) *models.Bid {
	var best *models.Bid
	for i := range bids {
		b := &bids[i]
		if best == nil {
			best = b
			continue
		}
		switch b.Amount.Cmp(best.Amount) {
		case 1:
			best = b
		case 0:
			if b.CreatedAt.Before(best.CreatedAt) {
				best = b
			}
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// HighestAmount is the amount of the standing bid, or zero
func HighestAmount(bids []models.Bid) decimal.Decimal {
	if h := Highest(bids); h != nil {
		return h.Amount
	}
	return decimal.Zero
}

package ratelimit

import "github.com/cmuseum/catalog/common/config"

// Limits holds the windows the catalog enforces
type Limits struct {
	// Bids a single bidder may submit per window, across all auctions
	BidderLimit         int64
	BidderWindowSeconds int

	// Requests per minute across all callers
	GlobalLimit int64
}

// DefaultLimits matches the config defaults
var DefaultLimits = Limits{
	BidderLimit:         10,
	BidderWindowSeconds: 60,
	GlobalLimit:         1000,
}

// LimitsFromConfig reads limits from the bidding config section
func LimitsFromConfig(cfg config.BiddingConfig) Limits {
	l := DefaultLimits
	if cfg.UserBidsPerWindow > 0 {
		l.BidderLimit = cfg.UserBidsPerWindow
	}
	if cfg.WindowSeconds > 0 {
		l.BidderWindowSeconds = cfg.WindowSeconds
	}
	if cfg.GlobalAPILimit > 0 {
		l.GlobalLimit = cfg.GlobalAPILimit
	}
	return l
}

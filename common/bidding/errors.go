package bidding

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Business-rule rejections on bid submission
var (
	ErrBidTooLow        = errors.New("bid is below the minimum next bid")
	ErrAuctionNotActive = errors.New("auction is not accepting bids")
)

// BidTooLowError carries the minimum the bid failed to meet
type BidTooLowError struct {
	Amount  decimal.Decimal
	Minimum decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("%s: bid %s, minimum %s", ErrBidTooLow, e.Amount.StringFixed(2), e.Minimum.StringFixed(2))
}

func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}

package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidStore is the append-only bid collection
type BidStore interface {
	AppendBid(ctx context.Context, bid *models.Bid) error
	ListBids(ctx context.Context, key models.BidKey) ([]models.Bid, error)
}

// Notifier pushes the highest bid of a key to observers
type Notifier interface {
	NotifyHighest(ctx context.Context, event *models.HighestBidEvent) error
}

// Recorder counts ledger outcomes
type Recorder interface {
	BidAccepted()
	BidRejected(reason string)
}

// Ledger validates and appends bids. It reads the current bids, checks the
// minimum and appends without a compare-and-set: two bidders racing on the
// same minimum may both be accepted.
type Ledger struct {
	store    BidStore
	notifier Notifier
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
}

// LedgerOption configures a Ledger
type LedgerOption func(*Ledger)

// WithClock overrides time.Now (tests)
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithRecorder counts accepted and rejected bids
func WithRecorder(r Recorder) LedgerOption {
	return func(l *Ledger) {
		l.recorder = r
	}
}

// NewLedger creates a ledger. notifier may be nil.
func NewLedger(store BidStore, notifier Notifier, log *logger.Logger, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the ledger clock
func (l *Ledger) Now() time.Time {
	return l.now()
}

// PlaceBid appends a bid for artifact in auction if every rule passes.
// Rules are checked in order: bidder present, artifact offered, auction
// active, amount at least the minimum next bid.
func (l *Ledger) PlaceBid(ctx context.Context, auction *models.Auction, artifact *models.Artifact, bidder *models.Bidder, amount decimal.Decimal) (*models.Bid, error) {
	if bidder == nil || bidder.ID == "" {
		l.rejected("unauthenticated")
		return nil, models.ErrUnauthenticated
	}

	if !auction.Includes(artifact.ArtifactID) {
		l.rejected("not_offered")
		return nil, fmt.Errorf("artifact %s in auction %s: %w", artifact.ArtifactID, auction.AuctionID, models.ErrNotFound)
	}

	now := l.now()
	if status := Status(auction, now); status != models.AuctionActive {
		l.rejected("not_active")
		return nil, fmt.Errorf("auction %s is %s: %w", auction.AuctionID, status, ErrAuctionNotActive)
	}

	if !amount.IsPositive() {
		l.rejected("invalid_amount")
		return nil, fmt.Errorf("%w: bid amount must be positive", models.ErrValidation)
	}

	key := models.BidKey{AuctionID: auction.AuctionID, ArtifactID: artifact.ArtifactID}
	log := l.log.WithAuctionID(auction.AuctionID).WithArtifactID(artifact.ArtifactID)

	bids, err := l.store.ListBids(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load bids: %w", err)
	}

	minimum := MinimumNextBid(artifact, auction, HighestAmount(bids))
	if amount.LessThan(minimum) {
		l.rejected("too_low")
		log.Debug("bid rejected", "amount", amount.String(), "minimum", minimum.String())
		return nil, &BidTooLowError{Amount: amount, Minimum: minimum}
	}

	bid := &models.Bid{
		BidID:      uuid.New().String(),
		AuctionID:  auction.AuctionID,
		ArtifactID: artifact.ArtifactID,
		BidderID:   bidder.ID,
		BidderName: bidder.DisplayName,
		Amount:     amount,
		CreatedAt:  now.UTC(),
	}

	if err := l.store.AppendBid(ctx, bid); err != nil {
		return nil, fmt.Errorf("failed to append bid: %w", err)
	}

	if l.recorder != nil {
		l.recorder.BidAccepted()
	}
	log.Info("bid placed", "bid_id", bid.BidID, "bidder_id", bid.BidderID, "amount", amount.String())

	// The bid is stored; a failed notification only delays observers until
	// the next bid on this key.
	if err := l.notify(ctx, auction, artifact, key); err != nil {
		log.Warn("failed to notify highest bid", "error", err)
	}

	return bid, nil
}

// Summary returns the bid history, standing bid and minimum next bid
func (l *Ledger) Summary(ctx context.Context, auction *models.Auction, artifact *models.Artifact) (*models.BidSummary, error) {
	if !auction.Includes(artifact.ArtifactID) {
		return nil, fmt.Errorf("artifact %s in auction %s: %w", artifact.ArtifactID, auction.AuctionID, models.ErrNotFound)
	}

	key := models.BidKey{AuctionID: auction.AuctionID, ArtifactID: artifact.ArtifactID}
	bids, err := l.store.ListBids(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load bids: %w", err)
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	highest := Highest(bids)
	current := decimal.Zero
	if highest != nil {
		current = highest.Amount
	}

	return &models.BidSummary{
		AuctionID:      auction.AuctionID,
		ArtifactID:     artifact.ArtifactID,
		Status:         Status(auction, l.now()),
		Highest:        highest,
		MinimumNextBid: MinimumNextBid(artifact, auction, current),
		Bids:           bids,
	}, nil
}

// notify recomputes the highest bid from the store, so observers see the true
// maximum even when concurrent bids landed between our read and append.
func (l *Ledger) notify(ctx context.Context, auction *models.Auction, artifact *models.Artifact, key models.BidKey) error {
	if l.notifier == nil {
		return nil
	}

	bids, err := l.store.ListBids(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to reload bids: %w", err)
	}

	highest := Highest(bids)
	if highest == nil {
		return errors.New("no bids after append")
	}

	event := &models.HighestBidEvent{
		AuctionID:  key.AuctionID,
		ArtifactID: key.ArtifactID,
		Highest:    highest,
		MinimumBid: MinimumNextBid(artifact, auction, highest.Amount).StringFixed(2),
		BidCount:   len(bids),
		Timestamp:  l.now().UTC(),
	}
	return l.notifier.NotifyHighest(ctx, event)
}

func (l *Ledger) rejected(reason string) {
	if l.recorder != nil {
		l.recorder.BidRejected(reason)
	}
}

package redis

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cmuseum/catalog/common/models"
)

//go:embed highest_bid.lua
var highestBidScript string

// Key layout for live bid state.
//
//	bids:highest:{auction}:{artifact}   latest HighestBidEvent (JSON)
//	bids:events:{auction}:{artifact}    pub/sub channel for HighestBidEvent
const (
	HighestBidKeyPrefix = "bids:highest:"
	BidChannelPrefix    = "bids:events:"
	BidChannelPattern   = BidChannelPrefix + "*"
)

// HighestBidKey returns the snapshot key for a bid stream
func HighestBidKey(key models.BidKey) string {
	return HighestBidKeyPrefix + key.String()
}

// BidChannel returns the pub/sub channel for a bid stream
func BidChannel(key models.BidKey) string {
	return BidChannelPrefix + key.String()
}

// BidPublisher pushes highest-bid updates through Redis. The snapshot and
// the publish happen in one script, and only when the event carries more
// bids than the stored snapshot, so concurrent bidders cannot roll the
// snapshot back to an older maximum.
type BidPublisher struct {
	client *Client
	script *redis.Script
	ttl    time.Duration
}

// NewBidPublisher creates a publisher; ttl bounds how long snapshots survive
// after the last bid.
func NewBidPublisher(client *Client, ttl time.Duration) *BidPublisher {
	return &BidPublisher{
		client: client,
		script: redis.NewScript(highestBidScript),
		ttl:    ttl,
	}
}

// NotifyHighest stores the snapshot and publishes the event unless a
// snapshot with an equal or higher bid count is already stored.
func (p *BidPublisher) NotifyHighest(ctx context.Context, event *models.HighestBidEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal highest bid event: %w", err)
	}

	key := models.BidKey{AuctionID: event.AuctionID, ArtifactID: event.ArtifactID}

	applied, err := p.script.Run(ctx, p.client.GetUnderlying(),
		[]string{HighestBidKey(key)},
		string(payload), event.BidCount, p.ttl.Milliseconds(), BidChannel(key),
	).Int()
	if err != nil {
		p.client.logger.Error("highest bid script failed", "key", key.String(), "error", err)
		return fmt.Errorf("failed to publish highest bid: %w", err)
	}
	if applied == 0 {
		p.client.logger.Debug("stale highest bid skipped", "key", key.String(), "bid_count", event.BidCount)
	}
	return nil
}

// Snapshot returns the last published event for key, or nil if none
func (p *BidPublisher) Snapshot(ctx context.Context, key models.BidKey) (*models.HighestBidEvent, error) {
	return LoadSnapshot(ctx, p.client, key)
}

// LoadSnapshot reads the last published highest-bid event for key
func LoadSnapshot(ctx context.Context, client *Client, key models.BidKey) (*models.HighestBidEvent, error) {
	raw, err := client.Get(ctx, HighestBidKey(key))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var event models.HighestBidEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, fmt.Errorf("failed to decode highest bid snapshot: %w", err)
	}
	return &event, nil
}

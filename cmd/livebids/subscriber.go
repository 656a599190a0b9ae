package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	rediscommon "github.com/cmuseum/catalog/common/redis"
)

// RedisSubscriber forwards highest-bid events from Redis pub/sub to the hub
type RedisSubscriber struct {
	redis *redis.Client
	hub   *Hub
	log   *logger.Logger
}

// NewRedisSubscriber creates a subscriber on the bid event channels
func NewRedisSubscriber(redisClient *redis.Client, hub *Hub, log *logger.Logger) *RedisSubscriber {
	return &RedisSubscriber{
		redis: redisClient,
		hub:   hub,
		log:   log,
	}
}

// Start listens until ctx is cancelled
func (s *RedisSubscriber) Start(ctx context.Context) error {
	pubsub := s.redis.PSubscribe(ctx, rediscommon.BidChannelPattern)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", rediscommon.BidChannelPattern, err)
	}
	s.log.Info("redis subscription confirmed", "pattern", rediscommon.BidChannelPattern)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("redis subscriber stopping")
			return nil

		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis subscription closed")
			}
			m, err := toMessage(msg.Channel, []byte(msg.Payload))
			if err != nil {
				s.log.Warn("dropping bid event", "channel", msg.Channel, "error", err)
				continue
			}
			s.hub.Broadcast(ctx, m)
		}
	}
}

// keyFromChannel parses bids:events:{auction}:{artifact}
func keyFromChannel(channel string) (models.BidKey, bool) {
	rest, ok := strings.CutPrefix(channel, rediscommon.BidChannelPrefix)
	if !ok {
		return models.BidKey{}, false
	}
	auctionID, artifactID, ok := strings.Cut(rest, ":")
	if !ok || auctionID == "" || artifactID == "" {
		return models.BidKey{}, false
	}
	return models.BidKey{AuctionID: auctionID, ArtifactID: artifactID}, true
}

// toMessage decodes a published event into a hub message
func toMessage(channel string, payload []byte) (*Message, error) {
	key, ok := keyFromChannel(channel)
	if !ok {
		return nil, fmt.Errorf("unexpected channel %q", channel)
	}

	var event models.HighestBidEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return eventMessage(key, &event, payload), nil
}

func eventMessage(key models.BidKey, event *models.HighestBidEvent, payload []byte) *Message {
	return &Message{Key: key, BidCount: event.BidCount, Data: payload}
}

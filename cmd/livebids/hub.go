package main

import (
	"context"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// Message is one highest-bid update for the clients watching Key
type Message struct {
	Key      models.BidKey
	BidCount int
	Data     []byte

	// set for a message meant for one client only
	to *Client
}

// SubscriberGauge reports the number of connected clients
type SubscriberGauge interface {
	SetLiveSubscribers(n int)
}

// Hub tracks websocket clients per bid stream and fans updates out to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients map[models.BidKey]map[*Client]struct{}
	count   int

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}

	gauge SubscriberGauge
	log   *logger.Logger
}

// NewHub creates a hub. gauge may be nil.
func NewHub(gauge SubscriberGauge, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[models.BidKey]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		gauge:      gauge,
		log:        log,
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client
func (h *Hub) Run(ctx context.Context) error {
	h.log.Info("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
			}
			h.clients = nil
			h.setGauge(0)
			h.log.Info("hub stopped")
			return nil

		case c := <-h.register:
			h.add(c)

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			if msg.to != nil {
				h.deliver(msg.to, msg)
				continue
			}
			h.fanOut(msg)
		}
	}
}

// Register adds c to the hub. Returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its send channel if still registered
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues msg for the clients watching msg.Key
func (h *Hub) Broadcast(ctx context.Context, msg *Message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	case <-ctx.Done():
	}
}

// Send queues msg for c alone. Dropped if c is no longer registered.
func (h *Hub) Send(ctx context.Context, c *Client, msg *Message) {
	direct := *msg
	direct.to = c
	h.Broadcast(ctx, &direct)
}

func (h *Hub) add(c *Client) {
	clients, ok := h.clients[c.key]
	if !ok {
		clients = make(map[*Client]struct{})
		h.clients[c.key] = clients
	}
	clients[c] = struct{}{}
	h.count++
	h.setGauge(h.count)

	h.log.Debug("client registered", "auction_id", c.key.AuctionID, "artifact_id", c.key.ArtifactID, "watching", len(clients))
}

func (h *Hub) remove(c *Client) {
	clients, ok := h.clients[c.key]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, c.key)
	}
	h.count--
	h.setGauge(h.count)
	close(c.send)

	h.log.Debug("client unregistered", "auction_id", c.key.AuctionID, "artifact_id", c.key.ArtifactID)
}

func (h *Hub) fanOut(msg *Message) {
	for c := range h.clients[msg.Key] {
		h.deliver(c, msg)
	}
}

func (h *Hub) deliver(c *Client, msg *Message) {
	if _, ok := h.clients[c.key][c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		// slow consumer; it reconnects and picks up the snapshot
		h.log.Warn("client send buffer full, disconnecting", "auction_id", c.key.AuctionID, "artifact_id", c.key.ArtifactID)
		h.remove(c)
	}
}

func (h *Hub) setGauge(n int) {
	if h.gauge != nil {
		h.gauge.SetLiveSubscribers(n)
	}
}

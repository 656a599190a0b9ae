package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// SnapshotSource returns the last published highest-bid event for a stream
type SnapshotSource interface {
	Snapshot(ctx context.Context, key models.BidKey) (*models.HighestBidEvent, error)
}

// Server upgrades watchers to websockets and registers them with the hub
type Server struct {
	hub       *Hub
	snapshots SnapshotSource
	upgrader  websocket.Upgrader
	log       *logger.Logger
}

// NewServer creates a websocket server. An empty allowedOrigins accepts any
// origin.
func NewServer(hub *Hub, snapshots SnapshotSource, allowedOrigins []string, log *logger.Logger) *Server {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Server{
		hub:       hub,
		snapshots: snapshots,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(origins) == 0 || origins[r.Header.Get("Origin")]
			},
		},
		log: log,
	}
}

// Routes returns the livebids handler
func (s *Server) Routes(health http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/auctions/{auctionID}/artifacts/{artifactID}", s.HandleWebSocket)
	mux.HandleFunc("GET /health", health)
	return mux
}

// HandleWebSocket streams highest-bid updates for one artifact in one auction.
// The current snapshot is sent first, to the new client only, when one exists.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	key := models.BidKey{
		AuctionID:  r.PathValue("auctionID"),
		ArtifactID: r.PathValue("artifactID"),
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	log := s.log.WithAuctionID(key.AuctionID).WithArtifactID(key.ArtifactID)
	client := NewClient(s.hub, conn, key, log)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	log.Info("watcher connected", "remote", r.RemoteAddr)

	// Registered before the snapshot read so no event falls in between
	event, err := s.snapshots.Snapshot(r.Context(), key)
	if err != nil {
		log.Warn("failed to load highest bid snapshot", "error", err)
		return
	}
	if event == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Warn("failed to encode snapshot", "error", err)
		return
	}
	s.hub.Send(r.Context(), client, eventMessage(key, event, payload))
}

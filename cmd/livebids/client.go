package main

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 30 * time.Second

	// Must be less than pongWait
	pingPeriod = 25 * time.Second

	// Clients only send pongs and close frames
	maxMessageSize = 512

	sendBuffer = 64
)

// Client is one websocket watching a single bid stream
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	key  models.BidKey
	send chan *Message
	log  *logger.Logger

	// highest bid count written so far; stale and repeated updates are skipped
	sent int
}

// NewClient creates a client for conn watching key
func NewClient(hub *Hub, conn *websocket.Conn, key models.BidKey, log *logger.Logger) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		key:  key,
		send: make(chan *Message, sendBuffer),
		log:  log,
		sent: -1,
	}
}

// readPump detects disconnects and keeps the read deadline fresh on pongs
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", "error", err)
			}
			return
		}
	}
}

// writePump writes updates in order, one frame per update
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if msg.BidCount <= c.sent {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
				return
			}
			c.sent = msg.BidCount

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

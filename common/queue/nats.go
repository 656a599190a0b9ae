package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/nats-io/nats.go"
)

// ErrClosed is returned when publishing to or subscribing on a closed queue
var ErrClosed = errors.New("queue closed")

const keyHeader = "Catalog-Key"

// NATSQueue publishes on NATS subjects. Subscribers join a queue group so each
// message is handled by one replica only.
type NATSQueue struct {
	conn  *nats.Conn
	group string
	log   *logger.Logger
}

// NewNATSQueue connects to url. group names the queue group shared by replicas
// of the same service.
func NewNATSQueue(url, group string, log *logger.Logger) (*NATSQueue, error) {
	conn, err := nats.Connect(url,
		nats.Name(group),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("nats connected", "url", url, "group", group)

	return &NATSQueue{conn: conn, group: group, log: log}, nil
}

// Publish publishes a message to a subject
func (q *NATSQueue) Publish(ctx context.Context, topic string, key string, message []byte) error {
	if q.conn.IsClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := nats.NewMsg(topic)
	msg.Header.Set(keyHeader, key)
	msg.Data = message

	if err := q.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe handles messages on topic until ctx is cancelled
func (q *NATSQueue) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	sub, err := q.conn.QueueSubscribe(topic, q.group, func(msg *nats.Msg) {
		key := msg.Header.Get(keyHeader)
		if err := handler(ctx, key, msg.Data); err != nil {
			q.log.Error("message handler error", "topic", topic, "key", key, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	q.log.Info("subscribing to topic", "topic", topic, "group", q.group)

	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			q.log.Warn("failed to unsubscribe", "topic", topic, "error", err)
		}
	}()

	return nil
}

// Close drains pending messages and closes the connection
func (q *NATSQueue) Close() error {
	if q.conn.IsClosed() {
		return nil
	}
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}

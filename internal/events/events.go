// Package events publishes domain events to NATS. Publishing is
// best-effort: a failed publish never fails the operation that
// produced the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/luminastore/lumina/internal/domain"
)

const (
	// SubjectOrderCreated is the NATS subject for order creation events.
	SubjectOrderCreated = "lumina.order.created"
)

// OrderCreated is the payload published after a successful checkout.
type OrderCreated struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	TotalCents  int64     `json:"total_cents"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Publisher publishes domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreated) error
}

// NatsPublisher publishes events over a NATS connection.
type NatsPublisher struct {
	conn *nats.Conn
}

// Connect dials the NATS server at url and returns a publisher over
// the connection. The connection reconnects automatically.
func Connect(url string) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, domain.Internal(err, "events.Connect", "failed to connect to NATS")
	}
	return &NatsPublisher{conn: conn}, nil
}

// PublishOrderCreated publishes the event to SubjectOrderCreated.
func (p *NatsPublisher) PublishOrderCreated(ctx context.Context, event OrderCreated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return domain.Internal(err, "events.PublishOrderCreated", "failed to encode event")
	}
	if err := p.conn.Publish(SubjectOrderCreated, data); err != nil {
		return domain.Internal(err, "events.PublishOrderCreated", "failed to publish event")
	}
	return nil
}

// Close drains the connection, flushing buffered messages.
func (p *NatsPublisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

// NoopPublisher discards all events. Used when no NATS server is
// configured and as a default in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(ctx context.Context, event OrderCreated) error {
	return nil
}

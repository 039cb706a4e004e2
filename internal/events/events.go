// Package events publishes order lifecycle notifications for downstream consumers
// such as fulfillment and email. Publishing is best effort: order state in the
// store is authoritative and never depends on delivery.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/nats-io/nats.go"
)

// Subjects published by the order core.
const (
	SubjectOrderConfirmed     = "orders.confirmed"
	SubjectOrderPaymentFailed = "orders.payment_failed"
	SubjectOrderCancelled     = "orders.cancelled"
	SubjectOrderStatusForced  = "orders.status_forced"
)

// OrderEvent is the JSON body of every order notification.
type OrderEvent struct {
	OrderID          string             `json:"orderId"`
	UserID           string             `json:"userId"`
	Status           domain.OrderStatus `json:"status"`
	Actor            domain.Actor       `json:"actor"`
	TotalAmountCents int64              `json:"totalAmountCents"`
	PaymentID        string             `json:"paymentId,omitempty"`
	OccurredAt       time.Time          `json:"occurredAt"`
}

// NewOrderEvent snapshots order for publication.
func NewOrderEvent(order *domain.Order, actor domain.Actor) OrderEvent {
	return OrderEvent{
		OrderID:          order.ID,
		UserID:           order.UserID,
		Status:           order.Status,
		Actor:            actor,
		TotalAmountCents: order.TotalAmountCents,
		PaymentID:        order.PaymentID,
		OccurredAt:       order.UpdatedAt,
	}
}

// SubjectFor maps a resulting status to its subject.
func SubjectFor(actor domain.Actor, status domain.OrderStatus) string {
	if actor == domain.ActorAdmin {
		return SubjectOrderStatusForced
	}
	switch status {
	case domain.StatusConfirmed:
		return SubjectOrderConfirmed
	case domain.StatusPaymentFailed:
		return SubjectOrderPaymentFailed
	case domain.StatusCancelled:
		return SubjectOrderCancelled
	default:
		return SubjectOrderStatusForced
	}
}

// Publisher delivers order events.
type Publisher interface {
	Publish(ctx context.Context, subject string, event OrderEvent) error
	Close()
}

// NATSPublisher publishes order events to a NATS server.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url. The connection reconnects in the background.
func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("stitchwork"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish encodes event as JSON and publishes it on subject.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, event OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, event.OrderID+":"+string(event.Status))
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// NopPublisher discards events. Used when NATS_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, OrderEvent) error { return nil }
func (NopPublisher) Close()                                            {}

// Published is one event captured by a RecordingPublisher.
type Published struct {
	Subject string
	Event   OrderEvent
}

// RecordingPublisher keeps published events in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Published
	// Err, when set, is returned from every Publish.
	Err error
}

func (r *RecordingPublisher) Publish(_ context.Context, subject string, event OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{Subject: subject, Event: event})
	return nil
}

func (r *RecordingPublisher) Close() {}

// Events returns a copy of everything published so far.
func (r *RecordingPublisher) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Package events publishes checkout milestones to Kafka so downstream
// services (fulfilment, notifications, analytics) can react to them.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/fjod/go_checkout/internal/domain"
)

const (
	TypeOrderPlaced = "order.placed"
	TypeOrderPaid   = "order.paid"
)

// Event is the wire envelope for a checkout milestone.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	UserEmail  string    `json:"user_email"`
	TotalPrice int64     `json:"total_price"`
	IsPaid     bool      `json:"is_paid"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher writes checkout events to a single Kafka topic. Publishing is
// fire-and-forget: the checkout flow must not stall on a slow broker, so
// failures are logged and dropped.
type Publisher struct {
	writer  *kafka.Writer
	timeout time.Duration
}

func NewPublisher(topic string, brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, timeout: 5 * time.Second}
}

func (p *Publisher) OrderPlaced(order domain.Order) {
	p.publish(TypeOrderPlaced, order)
}

func (p *Publisher) OrderPaid(order domain.Order) {
	p.publish(TypeOrderPaid, order)
}

func newEvent(eventType string, order domain.Order) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OrderID:    order.ID,
		UserEmail:  order.User.Email,
		TotalPrice: order.TotalPrice,
		IsPaid:     order.IsPaid,
		OccurredAt: time.Now().UTC(),
	}
}

func (p *Publisher) publish(eventType string, order domain.Order) {
	event := newEvent(eventType, order)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal %s event failed: %v", eventType, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(order.ID), // order id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("publish %s event for order %s failed: %v", eventType, order.ID, err)
		}
	}()
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

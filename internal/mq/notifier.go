package mq

import (
	"context"
	"fmt"

	"flood-watch/internal/models"
)

// BroadcastPublisher hands operator broadcasts to the bot service through RabbitMQ.
type BroadcastPublisher struct {
	pub publisher
}

type publisher interface {
	Publish(ctx context.Context, routingKey string, msg any) error
}

// NewBroadcastPublisher creates a broadcaster that publishes to RabbitMQ.
func NewBroadcastPublisher(pub *Publisher) *BroadcastPublisher {
	return &BroadcastPublisher{pub: pub}
}

// Broadcast publishes b for delivery.
func (n *BroadcastPublisher) Broadcast(ctx context.Context, b models.Broadcast) error {
	msg := BroadcastMsg{
		ID:       b.ID,
		Message:  b.Message,
		District: b.District,
		SentAt:   b.SentAt,
	}
	if err := n.pub.Publish(ctx, RoutingBroadcast, msg); err != nil {
		return fmt.Errorf("publish broadcast %s: %w", b.ID, err)
	}
	return nil
}

// ToBroadcast converts a received message back into a Broadcast.
func (m BroadcastMsg) ToBroadcast() models.Broadcast {
	return models.Broadcast{ID: m.ID, Message: m.Message, District: m.District, SentAt: m.SentAt}
}

package main

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"flood-watch/internal/bot"
	"flood-watch/internal/logger"
	"flood-watch/internal/models"
	"flood-watch/internal/mq"
)

type deliverer interface {
	Deliver(ctx context.Context, b models.Broadcast) (bot.Delivery, error)
}

// listener consumes broadcasts from RabbitMQ and posts them to Telegram.
type listener struct {
	consumer  *mq.Consumer
	deliverer deliverer
}

func newListener(consumer *mq.Consumer, d deliverer) *listener {
	return &listener{consumer: consumer, deliverer: d}
}

func (l *listener) start(ctx context.Context) error {
	broadcastCh, err := l.consumer.Consume(mq.QueueBroadcast)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "listener: consuming from %s", mq.QueueBroadcast)

	for {
		select {
		case <-ctx.Done():
			logger.Infof(ctx, "listener: stopped")
			return nil
		case d, ok := <-broadcastCh:
			if !ok {
				logger.Warnf(ctx, "listener: %s channel closed", mq.QueueBroadcast)
				return nil
			}
			l.handleBroadcast(ctx, d)
		}
	}
}

// handleBroadcast acks delivered and malformed messages. A broadcast that
// reached no channel is rejected without requeue so it cannot loop.
func (l *listener) handleBroadcast(ctx context.Context, d amqp.Delivery) {
	var msg mq.BroadcastMsg
	if err := mq.Decode(d.Body, &msg); err != nil {
		logger.Errorf(ctx, "listener: bad broadcast message: %v", err)
		_ = d.Ack(false)
		return
	}

	res, err := l.deliverer.Deliver(ctx, msg.ToBroadcast())
	if err != nil {
		logger.Errorf(ctx, "listener: %v", err)
		_ = d.Nack(false, false)
		return
	}

	logger.Infof(ctx, "listener: broadcast %s delivered to %d channels (%d failed)", msg.ID, len(res.Sent), len(res.Failed))
	_ = d.Ack(false)
}

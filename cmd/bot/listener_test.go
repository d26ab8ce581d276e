package main

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flood-watch/internal/bot"
	"flood-watch/internal/models"
	"flood-watch/internal/mq"
)

type acks struct {
	acked, nacked int
	requeued      bool
}

func (a *acks) Ack(uint64, bool) error { a.acked++; return nil }

func (a *acks) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func (a *acks) Reject(uint64, bool) error { return nil }

type fakeDeliverer struct {
	got []models.Broadcast
	err error
}

func (f *fakeDeliverer) Deliver(_ context.Context, b models.Broadcast) (bot.Delivery, error) {
	f.got = append(f.got, b)
	return bot.Delivery{Sent: []int64{-100}}, f.err
}

func delivery(t *testing.T, body []byte) (amqp.Delivery, *acks) {
	t.Helper()
	a := &acks{}
	return amqp.Delivery{Acknowledger: a, DeliveryTag: 1, Body: body}, a
}

func TestHandleBroadcast(t *testing.T) {
	sent := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	body, err := mq.Encode(mq.BroadcastMsg{ID: "b1", Message: "Evacuate", District: "Chennai", SentAt: sent})
	require.NoError(t, err)

	fd := &fakeDeliverer{}
	l := newListener(nil, fd)
	d, a := delivery(t, body)
	l.handleBroadcast(context.Background(), d)

	require.Len(t, fd.got, 1)
	assert.Equal(t, models.Broadcast{ID: "b1", Message: "Evacuate", District: "Chennai", SentAt: sent}, fd.got[0])
	assert.Equal(t, 1, a.acked)
}

func TestHandleBroadcastMalformed(t *testing.T) {
	fd := &fakeDeliverer{}
	d, a := delivery(t, []byte("{oops"))
	newListener(nil, fd).handleBroadcast(context.Background(), d)

	assert.Empty(t, fd.got)
	assert.Equal(t, 1, a.acked)
}

func TestHandleBroadcastDeliveryFailed(t *testing.T) {
	body, err := mq.Encode(mq.BroadcastMsg{ID: "b1", Message: "Evacuate"})
	require.NoError(t, err)

	fd := &fakeDeliverer{err: errors.New("all channels failed")}
	d, a := delivery(t, body)
	newListener(nil, fd).handleBroadcast(context.Background(), d)

	assert.Equal(t, 0, a.acked)
	assert.Equal(t, 1, a.nacked)
	assert.False(t, a.requeued)
}

package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackRecorder struct {
	acked    []uint64
	dropped  []uint64
	requeued []uint64
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, requeue bool) error {
	if requeue {
		a.requeued = append(a.requeued, tag)
	} else {
		a.dropped = append(a.dropped, tag)
	}
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error { return a.Nack(tag, false, requeue) }

type stubSender struct{ err error }

func (s stubSender) Send(context.Context, string, string, string, string) error { return s.err }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func deliveries(acks *ackRecorder, ds ...amqp.Delivery) <-chan amqp.Delivery {
	ch := make(chan amqp.Delivery, len(ds))
	for i, d := range ds {
		d.Acknowledger = acks
		d.DeliveryTag = uint64(i + 1)
		ch <- d
	}
	close(ch)
	return ch
}

const plainJob = `{"to":"asha@example.com","subject":"hi","text":"body"}`

func TestConsume_SettlesByOutcome(t *testing.T) {
	acks := &ackRecorder{}
	msgs := deliveries(acks,
		amqp.Delivery{Body: []byte(plainJob)},
		amqp.Delivery{Body: []byte("{not json")},
	)
	consume(context.Background(), msgs, stubSender{}, time.Second, quietLogger())

	assert.Equal(t, []uint64{1}, acks.acked)
	assert.Equal(t, []uint64{2}, acks.dropped)
	assert.Empty(t, acks.requeued)
}

func TestConsume_SendFailureRequeuesOnce(t *testing.T) {
	acks := &ackRecorder{}
	msgs := deliveries(acks,
		amqp.Delivery{Body: []byte(plainJob)},
		amqp.Delivery{Body: []byte(plainJob), Redelivered: true},
	)
	consume(context.Background(), msgs, stubSender{err: errors.New("mailgun down")}, time.Second, quietLogger())

	assert.Equal(t, []uint64{1}, acks.requeued)
	assert.Equal(t, []uint64{2}, acks.dropped)
	assert.Empty(t, acks.acked)
}

func TestConsume_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		consume(ctx, make(chan amqp.Delivery), stubSender{}, time.Second, quietLogger())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "consume did not return after cancel")
	}
}

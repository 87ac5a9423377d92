package main

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/pkg/mailer"
)

// consume settles each delivery according to mailer.Handle until msgs is
// closed or ctx is done. A send that already failed once is dropped instead
// of requeued again.
func consume(ctx context.Context, msgs <-chan amqp.Delivery, sender mailer.Sender, timeout time.Duration, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			settle(ctx, msg, sender, timeout, logger)
		}
	}
}

func settle(ctx context.Context, msg amqp.Delivery, sender mailer.Sender, timeout time.Duration, logger *logrus.Logger) {
	c, cancel := context.WithTimeout(ctx, timeout)
	outcome, err := mailer.Handle(c, msg.Body, sender)
	cancel()

	entry := logger.WithFields(logrus.Fields{"message_id": msg.MessageId, "redelivered": msg.Redelivered})
	switch {
	case outcome == mailer.Ack:
		entry.Debug("email sent")
		_ = msg.Ack(false)
	case outcome == mailer.Drop:
		entry.WithError(err).Warn("dropping malformed email job")
		_ = msg.Nack(false, false)
	case msg.Redelivered:
		entry.WithError(err).Error("email send failed again; dropping")
		_ = msg.Nack(false, false)
	default:
		entry.WithError(err).Warn("email send failed; requeueing")
		_ = msg.Nack(false, true)
	}
}

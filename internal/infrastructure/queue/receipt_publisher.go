// Package queue turns purchase receipts into mail jobs on the broker.
package queue

import (
	"context"
	"time"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/pkg/mailer"
	mailtpl "github.com/abhishekverma0700/eduavaa/pkg/mailer/templates"
)

// JSONPublisher is satisfied by *helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type ReceiptPublisher struct {
	pub JSONPublisher
	cfg *config.Config
	now func() time.Time
}

func NewReceiptPublisher(pub JSONPublisher, cfg *config.Config) *ReceiptPublisher {
	return &ReceiptPublisher{pub: pub, cfg: cfg, now: time.Now}
}

func (p *ReceiptPublisher) PublishReceipt(ctx context.Context, r application.Receipt) error {
	job := mailer.EmailJob{
		To:       r.UserEmail,
		Template: mailtpl.PurchaseReceipt,
		Data: mailtpl.NewPurchaseReceiptData(p.cfg, r.UserName, r.UserEmail,
			mailtpl.WithOrder(r.OrderID, r.PaymentID),
			mailtpl.WithItems(r.AssetIDs),
			mailtpl.WithTime(p.now()),
		),
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return p.pub.PublishJSON(c, job)
}

var _ application.ReceiptPublisher = (*ReceiptPublisher)(nil)

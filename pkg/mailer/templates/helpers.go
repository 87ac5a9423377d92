package templates

import (
	"path"
	"strings"
	"time"

	"github.com/abhishekverma0700/eduavaa/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithOrder(orderID, paymentID string) Option {
	return func(d *EmailData) {
		d.OrderID = orderID
		d.PaymentID = paymentID
	}
}

func WithItems(paths []string) Option {
	return func(d *EmailData) {
		d.Items = make([]ItemLine, 0, len(paths))
		for _, p := range paths {
			d.Items = append(d.Items, ItemLine{Path: p, Title: itemTitle(p)})
		}
		d.ItemCount = len(d.Items)
	}
}

func itemTitle(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(base)), " ")
}

// NewBaseEmailData fills the shared fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		SupportURL:    cfg.SupportURL,
		StorefrontURL: cfg.StorefrontURL,
	}
	if cfg.StorefrontURL != "" {
		d.LibraryURL = strings.TrimRight(cfg.StorefrontURL, "/") + "/my-notes"
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewPurchaseReceiptData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, PurchaseReceipt, name, email, email, opts...)
	return ToMap(d)
}

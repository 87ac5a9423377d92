package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/pkg/mailer"
)

type mockPublisher struct {
	err    error
	bodies []any
}

func (m *mockPublisher) PublishJSON(_ context.Context, body any) error {
	m.bodies = append(m.bodies, body)
	return m.err
}

func TestPublishReceipt_BuildsReceiptJob(t *testing.T) {
	pub := &mockPublisher{}
	p := NewReceiptPublisher(pub, &config.Config{CompanyName: "Eduava", StorefrontURL: "https://eduava.in"})
	p.now = func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) }

	err := p.PublishReceipt(context.Background(), application.Receipt{
		UserID: "u1", UserName: "Asha", UserEmail: "asha@example.com",
		OrderID: "order_abc", PaymentID: "pay_123", AssetIDs: []string{"Notes/unit1.pdf"},
	})
	require.NoError(t, err)
	require.Len(t, pub.bodies, 1)

	b, err := json.Marshal(pub.bodies[0])
	require.NoError(t, err)
	var job mailer.EmailJob
	require.NoError(t, json.Unmarshal(b, &job))

	assert.Equal(t, "asha@example.com", job.To)
	assert.Equal(t, "purchase_receipt", job.Template)
	assert.Equal(t, "pay_123", job.Data["PaymentID"])
	assert.Equal(t, "Asha", job.Data["Name"])
	assert.Equal(t, float64(1), job.Data["ItemCount"])
	assert.Equal(t, "https://eduava.in/my-notes", job.Data["LibraryURL"])
}

func TestPublishReceipt_PropagatesError(t *testing.T) {
	pub := &mockPublisher{err: errors.New("channel closed")}
	err := NewReceiptPublisher(pub, &config.Config{}).PublishReceipt(context.Background(), application.Receipt{UserEmail: "a@b.c"})
	assert.Error(t, err)
}

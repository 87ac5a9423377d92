package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/migrations"
	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/sqlite"
)

func newSQLiteLedger(t *testing.T) *sqlite.LedgerRepository {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.UpSQLite(db, nil))
	return sqlite.NewLedgerRepository(db)
}

func TestVerifyAndUnlock_RejectedSignatureTouchesNothing(t *testing.T) {
	r := &mockLedgerRepo{}
	s := NewPaymentService(NewSignatureVerifier(testSecret), NewLedgerService(r, nil, nil, nil), nil)

	_, err := s.VerifyAndUnlock(context.Background(), PaymentProof{
		OrderID: "order_abc", PaymentID: "pay_123", Signature: "deadbeef",
		UserID: "u1", AssetIDs: []string{"Notes/unit1.pdf"},
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Zero(t, r.userCalls)
	assert.Zero(t, r.grantCalls)
}

func TestVerifyAndUnlock_MissingClaims(t *testing.T) {
	s := NewPaymentService(NewSignatureVerifier(testSecret), NewLedgerService(&mockLedgerRepo{}, nil, nil, nil), nil)
	sig := ExpectedSignature(testSecret, "order_abc", "pay_123")

	_, err := s.VerifyAndUnlock(context.Background(), PaymentProof{OrderID: "order_abc", PaymentID: "pay_123", Signature: sig, AssetIDs: []string{"Notes/a.pdf"}})
	assert.ErrorIs(t, err, ErrInvalidUnlock)

	_, err = s.VerifyAndUnlock(context.Background(), PaymentProof{OrderID: "order_abc", PaymentID: "pay_123", Signature: sig, UserID: "u1"})
	assert.ErrorIs(t, err, ErrInvalidUnlock)

	_, err = s.VerifyAndUnlock(context.Background(), PaymentProof{OrderID: "order_abc", PaymentID: "pay_123", Signature: sig, UserID: "u 1", AssetIDs: []string{"Notes/a.pdf"}})
	assert.ErrorIs(t, err, ErrInvalidUnlock)
}

// Full purchase: order for 4.50, verified callback, idempotent replay,
// then the access query and admin report see the grant.
func TestPurchaseFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteLedger(t)

	gw := &mockGateway{}
	orders := newOrderService(gw)
	order, err := orders.CreateOrder(ctx, OrderInput{Amount: 4.50})
	require.NoError(t, err)
	assert.Equal(t, int64(450), order["amount"])

	access := NewAccessService(repo, nil, 0, nil, 0, nil)
	payments := NewPaymentService(NewSignatureVerifier(testSecret), NewLedgerService(repo, access, nil, nil), nil)

	proof := PaymentProof{
		OrderID:   "order_abc",
		PaymentID: "pay_123",
		Signature: ExpectedSignature(testSecret, "order_abc", "pay_123"),
		UserID:    "u1",
		AssetIDs:  []string{"Notes/unit1.pdf"},
	}
	res, err := payments.VerifyAndUnlock(ctx, proof)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())

	res, err = payments.VerifyAndUnlock(ctx, proof)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())

	assert.Equal(t, []string{"Notes/unit1.pdf"}, access.ListUnlocked(ctx, "u1"))
	assert.Equal(t, []string{}, access.ListUnlocked(ctx, "u2"))

	sales, err := NewSalesService(repo, NewAllowList([]string{"admin-1"}), 0, nil).ListSales(ctx, "admin-1")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "pay_123", sales[0].PaymentID)
	assert.Equal(t, "Student", sales[0].UserName)

	tampered := []byte(proof.Signature)
	if tampered[0] == '0' {
		tampered[0] = '1'
	} else {
		tampered[0] = '0'
	}
	_, err = payments.VerifyAndUnlock(ctx, PaymentProof{
		OrderID: "order_abc", PaymentID: "pay_123", Signature: string(tampered),
		UserID: "u1", AssetIDs: []string{"Notes/unit2.pdf"},
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, []string{"Notes/unit1.pdf"}, access.ListUnlocked(ctx, "u1"))
}

func TestPurchaseFlow_CartReplayWithDifferentPayment(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteLedger(t)
	payments := NewPaymentService(NewSignatureVerifier(testSecret), NewLedgerService(repo, nil, nil, nil), nil)

	first := PaymentProof{
		OrderID: "order_1", PaymentID: "pay_1", Signature: ExpectedSignature(testSecret, "order_1", "pay_1"),
		UserID: "u1", AssetIDs: []string{"Notes/a.pdf", "Quantum/q.pdf"}, UserName: "Asha",
	}
	_, err := payments.VerifyAndUnlock(ctx, first)
	require.NoError(t, err)

	second := PaymentProof{
		OrderID: "order_2", PaymentID: "pay_2", Signature: ExpectedSignature(testSecret, "order_2", "pay_2"),
		UserID: "u1", AssetIDs: []string{"Quantum/q.pdf", "Notes/b.pdf"},
	}
	res, err := payments.VerifyAndUnlock(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())

	grants, err := repo.ListGrantsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, grants, 3)
	byAsset := map[string]string{}
	for _, g := range grants {
		byAsset[g.AssetID] = g.PaymentID
	}
	assert.Equal(t, "pay_1", byAsset["Quantum/q.pdf"], "first grant wins")
	assert.Equal(t, "pay_2", byAsset["Notes/b.pdf"])

	sales, err := repo.ListAllGrantsJoined(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Asha", sales[0].UserName, "name kept when later payment omits it")
}

package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
)

// PaymentProof is the client's claim that a payment completed. It is
// validated and discarded.
type PaymentProof struct {
	OrderID   string
	PaymentID string
	Signature string
	UserID    string
	AssetIDs  []string
	UserName  string
	UserEmail string
}

type PaymentService struct {
	Verifier *SignatureVerifier
	Ledger   *LedgerService
	Logger   *logrus.Logger
}

func NewPaymentService(v *SignatureVerifier, ledger *LedgerService, logger *logrus.Logger) *PaymentService {
	return &PaymentService{Verifier: v, Ledger: ledger, Logger: logger}
}

// VerifyAndUnlock checks the signature and, only if it holds, grants every
// claimed asset to the user.
func (s *PaymentService) VerifyAndUnlock(ctx context.Context, p PaymentProof) (BatchResult, error) {
	if !entity.ValidUserID(p.UserID) || len(p.AssetIDs) == 0 {
		return BatchResult{}, fmt.Errorf("%w: user and assets required", ErrInvalidUnlock)
	}
	if !s.Verifier.Verify(p.OrderID, p.PaymentID, p.Signature) {
		paymentVerificationsTotal.WithLabelValues("invalid").Inc()
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{
				"order_id":   p.OrderID,
				"payment_id": p.PaymentID,
				"user_id":    p.UserID,
			}).Warn("payment signature rejected")
		}
		return BatchResult{}, ErrInvalidSignature
	}
	paymentVerificationsTotal.WithLabelValues("valid").Inc()

	return s.Ledger.RecordUnlockBatch(ctx, BatchUnlockInput{
		UserID:    p.UserID,
		AssetIDs:  p.AssetIDs,
		PaymentID: p.PaymentID,
		OrderID:   p.OrderID,
		UserName:  p.UserName,
		UserEmail: p.UserEmail,
	})
}

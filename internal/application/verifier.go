package application

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks gateway callback signatures. It is the only gate
// in front of ledger writes.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// ExpectedSignature returns lower-case hex HMAC-SHA256(secret, orderID|paymentID).
func ExpectedSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature authenticates (orderID, paymentID).
// Any empty input fails closed.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	if v == nil || len(v.secret) == 0 || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := ExpectedSignature(string(v.secret), orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

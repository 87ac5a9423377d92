package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/pkg/response"
)

type PaymentVerifier interface {
	VerifyAndUnlock(ctx context.Context, p application.PaymentProof) (application.BatchResult, error)
}

type PaymentHandler struct {
	Svc    PaymentVerifier
	Logger *logrus.Logger
}

func NewPaymentHandler(svc PaymentVerifier, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

type verifyPaymentRequest struct {
	OrderID   string   `json:"razorpay_order_id" binding:"required"`
	PaymentID string   `json:"razorpay_payment_id" binding:"required"`
	Signature string   `json:"razorpay_signature" binding:"required"`
	UserID    string   `json:"user_id" binding:"required,opaqueid"`
	UserName  string   `json:"user_name" binding:"omitempty,max=200"`
	UserEmail string   `json:"user_email" binding:"omitempty,email"`
	AssetID   string   `json:"asset_id" binding:"omitempty,assetpath"`
	AssetIDs  []string `json:"asset_ids" binding:"omitempty,dive,assetpath"`
}

type cartVerifyRequest struct {
	OrderID   string            `json:"razorpay_order_id" binding:"required"`
	PaymentID string            `json:"razorpay_payment_id" binding:"required"`
	Signature string            `json:"razorpay_signature" binding:"required"`
	UserID    string            `json:"user_id" binding:"required,opaqueid"`
	UserName  string            `json:"user_name" binding:"omitempty,max=200"`
	UserEmail string            `json:"user_email" binding:"omitempty,email"`
	Items     []cartItemRequest `json:"items" binding:"required,min=1,dive"`
}

type unlockResult struct {
	UnlockCount   int      `json:"unlock_count"`
	UnlockedPaths []string `json:"unlocked_paths"`
	FailedPaths   []string `json:"failed_paths"`
}

func toUnlockResult(r application.BatchResult) unlockResult {
	out := unlockResult{UnlockCount: r.Count(), UnlockedPaths: r.Unlocked, FailedPaths: r.Failed}
	if out.UnlockedPaths == nil {
		out.UnlockedPaths = []string{}
	}
	if out.FailedPaths == nil {
		out.FailedPaths = []string{}
	}
	return out
}

// Verify accepts either a single asset_id or an asset_ids list.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	assets := req.AssetIDs
	if req.AssetID != "" {
		assets = append([]string{req.AssetID}, assets...)
	}
	if len(assets) == 0 {
		response.Fail(c, http.StatusBadRequest, "invalid payload", "validation_error", map[string]string{"asset_id": "is required"})
		return
	}
	h.verify(c, application.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		UserID:    req.UserID,
		AssetIDs:  assets,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
	})
}

func (h *PaymentHandler) CartVerify(c *gin.Context) {
	var req cartVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	assets := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		assets = append(assets, it.AssetID)
	}
	h.verify(c, application.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		UserID:    req.UserID,
		AssetIDs:  assets,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
	})
}

func (h *PaymentHandler) verify(c *gin.Context, p application.PaymentProof) {
	res, err := h.Svc.VerifyAndUnlock(c.Request.Context(), p)
	if err != nil {
		failService(c, h.Logger, err)
		return
	}
	response.OK(c, toUnlockResult(res), "payment verified")
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishekverma0700/eduavaa/internal/container"
	handlers "github.com/abhishekverma0700/eduavaa/internal/interface/http"
	"github.com/abhishekverma0700/eduavaa/internal/interface/middleware"
)

// CheckoutModule wires order initiation and payment verification.
// POST /api/orders, POST /api/cart/checkout
// POST /api/payments/verify, POST /api/cart/verify-payment
type CheckoutModule struct {
	Orders   *handlers.OrderHandler
	Payments *handlers.PaymentHandler
}

func NewCheckoutModule(orders *handlers.OrderHandler, payments *handlers.PaymentHandler) *CheckoutModule {
	return &CheckoutModule{Orders: orders, Payments: payments}
}

func (m *CheckoutModule) Register(rg *gin.RouterGroup) {
	orderLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByBucket("orders"), nil)  // 20 req/min per IP
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByBucket("verify"), nil) // 30 req/min per IP

	rg.POST("/orders", orderLimiter, m.Orders.CreateOrder)
	rg.POST("/cart/checkout", orderLimiter, m.Orders.CartCheckout)

	rg.POST("/payments/verify", verifyLimiter, m.Payments.Verify)
	rg.POST("/cart/verify-payment", verifyLimiter, m.Payments.CartVerify)
}

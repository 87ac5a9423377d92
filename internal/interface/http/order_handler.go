package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/pkg/response"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, in application.OrderInput) (application.Order, error)
	CreateCartOrder(ctx context.Context, in application.CartInput) (*application.CartOrder, error)
}

type OrderHandler struct {
	Svc    OrderCreator
	Logger *logrus.Logger
}

func NewOrderHandler(svc OrderCreator, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type createOrderRequest struct {
	Amount float64           `json:"amount" binding:"amount"`
	Notes  map[string]string `json:"notes"`
}

type cartItemRequest struct {
	AssetID string  `json:"asset_id" binding:"required,assetpath"`
	Price   float64 `json:"price" binding:"amount"`
}

type cartCheckoutRequest struct {
	UserID string            `json:"user_id" binding:"required,opaqueid"`
	Items  []cartItemRequest `json:"items" binding:"required,min=1,dive"`
}

func toCartItems(in []cartItemRequest) []application.CartItem {
	out := make([]application.CartItem, 0, len(in))
	for _, it := range in {
		out = append(out, application.CartItem{AssetID: it.AssetID, Price: it.Price})
	}
	return out
}

// CreateOrder opens a single-amount order and returns the gateway object as-is.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	order, err := h.Svc.CreateOrder(c.Request.Context(), application.OrderInput{Amount: req.Amount, Notes: req.Notes})
	if err != nil {
		failService(c, h.Logger, err)
		return
	}
	response.OK(c, order, "order created")
}

func (h *OrderHandler) CartCheckout(c *gin.Context) {
	var req cartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	res, err := h.Svc.CreateCartOrder(c.Request.Context(), application.CartInput{
		UserID: req.UserID,
		Items:  toCartItems(req.Items),
	})
	if err != nil {
		failService(c, h.Logger, err)
		return
	}
	response.OK(c, res, "cart order created")
}

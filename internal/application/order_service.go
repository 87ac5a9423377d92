package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
)

// Order is the gateway's order object, passed to the client untouched.
type Order map[string]any

// OrderRequest is what the gateway needs to open an order.
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// OrderGateway opens orders at the payment provider.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}

// PriceLookup resolves the catalog price of an asset.
type PriceLookup interface {
	PriceFor(assetID string) (float64, bool)
}

type OrderInput struct {
	Amount float64
	Notes  map[string]string
}

type CartItem struct {
	AssetID string  `json:"asset_id"`
	Price   float64 `json:"price"`
}

type CartInput struct {
	UserID string
	Items  []CartItem
}

type CartOrder struct {
	Order       Order      `json:"order"`
	TotalAmount float64    `json:"total_amount"`
	ItemCount   int        `json:"item_count"`
	Items       []CartItem `json:"items"`
}

type OrderService struct {
	Gateway       OrderGateway
	Prices        PriceLookup
	Currency      string
	ReceiptPrefix string
	Timeout       time.Duration
	Logger        *logrus.Logger

	now func() time.Time
}

func NewOrderService(gw OrderGateway, prices PriceLookup, currency, receiptPrefix string, timeout time.Duration, logger *logrus.Logger) *OrderService {
	if currency == "" {
		currency = "INR"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OrderService{
		Gateway:       gw,
		Prices:        prices,
		Currency:      currency,
		ReceiptPrefix: receiptPrefix,
		Timeout:       timeout,
		Logger:        logger,
		now:           time.Now,
	}
}

// ToMinorUnits converts a major-unit amount to the smallest currency unit,
// rounding half away from zero.
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	minor := math.Round(amount * 100)
	if minor <= 0 || minor > math.MaxInt64/2 {
		return 0, ErrInvalidAmount
	}
	return int64(minor), nil
}

func (s *OrderService) receipt() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return s.ReceiptPrefix + strconv.FormatInt(s.now().UnixMilli(), 10) + "_" + suffix
}

// CreateOrder opens a gateway order for amount. Nothing is persisted.
func (s *OrderService) CreateOrder(ctx context.Context, in OrderInput) (Order, error) {
	minor, err := ToMinorUnits(in.Amount)
	if err != nil {
		return nil, err
	}
	order, err := s.open(ctx, minor, in.Notes)
	if err != nil {
		return nil, err
	}
	ordersCreatedTotal.WithLabelValues("single").Inc()
	return order, nil
}

// CreateCartOrder prices the cart from the catalog and opens one order for
// the total. Client prices are used only for assets outside the catalog.
func (s *OrderService) CreateCartOrder(ctx context.Context, in CartInput) (*CartOrder, error) {
	userID := in.UserID
	if !entity.ValidUserID(userID) || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: user and at least one item required", ErrInvalidUnlock)
	}

	seen := make(map[string]struct{}, len(in.Items))
	items := make([]CartItem, 0, len(in.Items))
	var total float64
	for _, it := range in.Items {
		id := it.AssetID
		if !entity.ValidAssetID(id) {
			return nil, fmt.Errorf("%w: invalid asset id %q", ErrInvalidUnlock, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		price := it.Price
		if s.Prices != nil {
			if p, ok := s.Prices.PriceFor(id); ok {
				price = p
			}
		}
		if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, id)
		}
		items = append(items, CartItem{AssetID: id, Price: price})
		total += price
	}

	minor, err := ToMinorUnits(total)
	if err != nil {
		return nil, err
	}
	notes := map[string]string{
		"type":       "cart",
		"item_count": strconv.Itoa(len(items)),
		"user_id":    userID,
	}
	order, err := s.open(ctx, minor, notes)
	if err != nil {
		return nil, err
	}
	ordersCreatedTotal.WithLabelValues("cart").Inc()

	return &CartOrder{
		Order:       order,
		TotalAmount: float64(minor) / 100,
		ItemCount:   len(items),
		Items:       items,
	}, nil
}

func (s *OrderService) open(ctx context.Context, minor int64, notes map[string]string) (Order, error) {
	if s.Gateway == nil {
		return nil, fmt.Errorf("%w: not configured", ErrGateway)
	}
	req := OrderRequest{
		AmountMinor: minor,
		Currency:    s.Currency,
		Receipt:     s.receipt(),
		Notes:       notes,
	}

	c, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	order, err := s.Gateway.CreateOrder(c, req)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"receipt":      req.Receipt,
				"amount_minor": minor,
			}).Error("gateway order create failed")
		}
		if errors.Is(err, ErrGateway) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if _, ok := order["id"]; !ok {
		return nil, fmt.Errorf("%w: order without id", ErrGateway)
	}
	if _, ok := order["amount"]; !ok {
		return nil, fmt.Errorf("%w: order without amount", ErrGateway)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"order_id": order["id"], "receipt": req.Receipt}).Info("order created")
	}
	return order, nil
}

// Package gateway adapts the Razorpay SDK to the order service.
package gateway

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/abhishekverma0700/eduavaa/internal/application"
)

// orderCreator is the part of the SDK's order resource the adapter calls.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	orders orderCreator
}

func NewRazorpay(keyID, keySecret string) (*Razorpay, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{orders: client.Order}, nil
}

type createResult struct {
	order map[string]interface{}
	err   error
}

// CreateOrder opens an order. The SDK takes no context, so the call runs in
// its own goroutine and is abandoned when ctx ends.
func (r *Razorpay) CreateOrder(ctx context.Context, req application.OrderRequest) (application.Order, error) {
	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	done := make(chan createResult, 1)
	go func() {
		order, err := r.orders.Create(data, nil)
		done <- createResult{order: order, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", application.ErrGateway, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", application.ErrGateway, res.err)
		}
		return application.Order(res.order), nil
	}
}

var _ application.OrderGateway = (*Razorpay)(nil)

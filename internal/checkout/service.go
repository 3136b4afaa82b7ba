// Package checkout drives the cart -> payment method -> order commit flow.
// Totals are always derived from the live catalog price, so a price change
// between add-to-cart and checkout is reflected at checkout time.
package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mercadito-dev/storefront/internal/cart"
	"github.com/mercadito-dev/storefront/internal/order"
)

// ErrPaymentIncomplete is the online path's "payment_done = no" answer. The
// cart stays as it is; the user is expected to confirm again.
var ErrPaymentIncomplete = errors.New("payment not completed")

// Summary is a user's cart as one checkout step sees it.
// swagger:model
type Summary struct {
	Items []cart.Line `json:"items"`
	Total string      `json:"total"`
}

type Service struct {
	carts  cart.Repository
	orders order.Repository
}

func NewService(carts cart.Repository, orders order.Repository) *Service {
	return &Service{carts: carts, orders: orders}
}

// Summarize recomputes the cart lines and total. No side effects; an empty
// cart yields an empty item list and a zero total.
func (s *Service) Summarize(ctx context.Context, userID string) (*Summary, error) {
	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, ln := range lines {
		sub, err := ln.Subtotal()
		if err != nil {
			return nil, err
		}
		total = total.Add(sub)
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	return &Summary{Items: lines, Total: total.StringFixed(2)}, nil
}

// SelectMethod validates the user's payment choice and returns it together
// with the fresh total the confirmation step will present. Pure routing: no
// state is persisted here.
func (s *Service) SelectMethod(ctx context.Context, userID, raw string) (PaymentMethod, *Summary, error) {
	method, err := ParseMethod(raw)
	if err != nil {
		return "", nil, err
	}
	sum, err := s.Summarize(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return method, sum, nil
}

// ConfirmCash commits the cart as a cash-on-delivery purchase.
func (s *Service) ConfirmCash(ctx context.Context, userID string) ([]order.Order, error) {
	return s.orders.CommitCart(ctx, userID, string(CashOnDelivery))
}

// ConfirmOnline commits the cart once the user attests the online payment
// went through. paymentDone=false leaves everything untouched and returns
// ErrPaymentIncomplete.
func (s *Service) ConfirmOnline(ctx context.Context, userID string, paymentDone bool) ([]order.Order, error) {
	if !paymentDone {
		return nil, ErrPaymentIncomplete
	}
	return s.orders.CommitCart(ctx, userID, string(OnlinePayment))
}

package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadito-dev/storefront/internal/cart"
	"github.com/mercadito-dev/storefront/internal/order"
)

type fakeCarts struct {
	lines map[string][]cart.Line
	err   error
}

func (f *fakeCarts) Add(ctx context.Context, userID, productID string) (*cart.Item, error) {
	return nil, errors.New("not used")
}

func (f *fakeCarts) ListByUser(ctx context.Context, userID string) ([]cart.Line, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lines[userID], nil
}

func (f *fakeCarts) Increase(ctx context.Context, userID, itemID string) (*cart.Item, error) {
	return nil, errors.New("not used")
}

func (f *fakeCarts) Decrease(ctx context.Context, userID, itemID string) (*cart.Item, error) {
	return nil, errors.New("not used")
}

type fakeOrders struct {
	lastUser   string
	lastMethod string
	commits    int
	result     []order.Order
	err        error
}

func (f *fakeOrders) CommitCart(ctx context.Context, userID, paymentMethod string) ([]order.Order, error) {
	f.commits++
	f.lastUser = userID
	f.lastMethod = paymentMethod
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID string, limit, offset int) ([]order.Order, error) {
	return nil, errors.New("not used")
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, userID, id string, status order.Status) error {
	return errors.New("not used")
}

func TestSummarize_SumsLineSubtotals(t *testing.T) {
	carts := &fakeCarts{lines: map[string][]cart.Line{
		"u1": {
			{ItemID: "i1", ProductID: "a", UnitPrice: "10.00", Quantity: 2},
			{ItemID: "i2", ProductID: "b", UnitPrice: "5.00", Quantity: 1},
		},
	}}
	svc := NewService(carts, &fakeOrders{})

	sum, err := svc.Summarize(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Total != "25.00" || len(sum.Items) != 2 {
		t.Fatalf("total=%s items=%d", sum.Total, len(sum.Items))
	}
}

func TestSummarize_EmptyCart(t *testing.T) {
	svc := NewService(&fakeCarts{lines: map[string][]cart.Line{}}, &fakeOrders{})

	sum, err := svc.Summarize(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Total != "0.00" {
		t.Fatalf("total=%s, expected 0.00", sum.Total)
	}
	if sum.Items == nil || len(sum.Items) != 0 {
		t.Fatalf("items=%v, expected empty non-nil slice", sum.Items)
	}
}

func TestSummarize_BadPriceSurfaces(t *testing.T) {
	carts := &fakeCarts{lines: map[string][]cart.Line{
		"u1": {{ItemID: "i1", UnitPrice: "not-a-number", Quantity: 1}},
	}}
	svc := NewService(carts, &fakeOrders{})

	if _, err := svc.Summarize(context.Background(), "u1"); err == nil {
		t.Fatal("expected error for malformed price")
	}
}

func TestSelectMethod(t *testing.T) {
	carts := &fakeCarts{lines: map[string][]cart.Line{
		"u1": {{ItemID: "i1", UnitPrice: "3.00", Quantity: 3}},
	}}
	svc := NewService(carts, &fakeOrders{})

	if _, _, err := svc.SelectMethod(context.Background(), "u1", "store_credit"); !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("err=%v, expected ErrInvalidMethod", err)
	}

	method, sum, err := svc.SelectMethod(context.Background(), "u1", "online_payment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != OnlinePayment || sum.Total != "9.00" {
		t.Fatalf("method=%s total=%s", method, sum.Total)
	}
}

func TestConfirmCash_UsesCashMethod(t *testing.T) {
	orders := &fakeOrders{result: []order.Order{{ID: "o1"}}}
	svc := NewService(&fakeCarts{}, orders)

	out, err := svc.ConfirmCash(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || orders.lastMethod != string(CashOnDelivery) || orders.lastUser != "u1" {
		t.Fatalf("commit call: user=%s method=%s", orders.lastUser, orders.lastMethod)
	}
}

func TestConfirmOnline_DeclinedDoesNotCommit(t *testing.T) {
	orders := &fakeOrders{}
	svc := NewService(&fakeCarts{}, orders)

	_, err := svc.ConfirmOnline(context.Background(), "u1", false)
	if !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("err=%v, expected ErrPaymentIncomplete", err)
	}
	if orders.commits != 0 {
		t.Fatalf("commits=%d, expected none", orders.commits)
	}
}

func TestConfirmOnline_PaidCommitsWithOnlineMethod(t *testing.T) {
	orders := &fakeOrders{}
	svc := NewService(&fakeCarts{}, orders)

	if _, err := svc.ConfirmOnline(context.Background(), "u1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.lastMethod != string(OnlinePayment) {
		t.Fatalf("method=%s, expected online_payment", orders.lastMethod)
	}
}

func TestConfirm_EmptyCartPassedThrough(t *testing.T) {
	orders := &fakeOrders{err: order.ErrEmptyCart}
	svc := NewService(&fakeCarts{}, orders)

	if _, err := svc.ConfirmCash(context.Background(), "u1"); !errors.Is(err, order.ErrEmptyCart) {
		t.Fatalf("err=%v, expected ErrEmptyCart", err)
	}
}

package cart

import "testing"

func TestLineSubtotal(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		quantity int
		want     string
		wantErr  bool
	}{
		{name: "simple", price: "10.00", quantity: 2, want: "20.00"},
		{name: "single unit", price: "5.00", quantity: 1, want: "5.00"},
		{name: "cents", price: "0.99", quantity: 3, want: "2.97"},
		{name: "zero price", price: "0.00", quantity: 7, want: "0.00"},
		{name: "malformed price", price: "free", quantity: 1, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Line{UnitPrice: tc.price, Quantity: tc.quantity}.Subtotal()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StringFixed(2) != tc.want {
				t.Fatalf("subtotal=%s, expected %s", got.StringFixed(2), tc.want)
			}
		})
	}
}

package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line is a cart item joined with its product, the shape every checkout step
// works with. UnitPrice is the live catalog price at read time, not the price
// when the item was added.
type Line struct {
	ItemID      string `json:"item_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url,omitempty"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

func (l Line) Subtotal() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(l.UnitPrice)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Mul(decimal.NewFromInt(int64(l.Quantity))), nil
}

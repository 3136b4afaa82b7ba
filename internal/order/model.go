package order

import "time"

type Status string

const (
	StatusNotDelivered Status = "Not Delivered"
	StatusDelivered    Status = "Delivered"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNotDelivered, StatusDelivered:
		return Status(s), true
	}
	return "", false
}

// Order is one purchased line: a product, the quantity bought, and what it
// cost at the moment the cart was committed. Immutable afterwards apart from
// the delivery status flip.
type Order struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ProductID     string    `json:"product_id"`
	PaymentMethod string    `json:"payment_method"`
	Quantity      int       `json:"quantity"`
	TotalAmount   string    `json:"total_amount"` // NUMERIC -> string
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

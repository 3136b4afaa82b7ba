package checkout

import "errors"

type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "cash_on_delivery"
	OnlinePayment  PaymentMethod = "online_payment"
)

var ErrInvalidMethod = errors.New("invalid payment method")

func ParseMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case CashOnDelivery, OnlinePayment:
		return PaymentMethod(s), nil
	}
	return "", ErrInvalidMethod
}

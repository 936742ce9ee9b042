package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod describes how a shopper intends to pay at delivery or checkout.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
	PaymentMethodCard,
	PaymentMethodUPI,
}

// DefaultPaymentMethod is preselected on the payment step.
const DefaultPaymentMethod = PaymentMethodCOD

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label is the human readable name shown on the review step.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodCOD:
		return "Cash on Delivery"
	case PaymentMethodCard:
		return "Credit/Debit Card"
	case PaymentMethodUPI:
		return "UPI"
	default:
		return string(p)
	}
}

// ParsePaymentMethod converts raw input into a PaymentMethod. Blank input
// selects DefaultPaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultPaymentMethod, nil
	}
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

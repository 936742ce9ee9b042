package enums

import "fmt"

// CheckoutStep is a position in the linear checkout flow.
type CheckoutStep string

const (
	CheckoutStepAddress   CheckoutStep = "address"
	CheckoutStepPayment   CheckoutStep = "payment"
	CheckoutStepReview    CheckoutStep = "review"
	CheckoutStepConfirmed CheckoutStep = "confirmed"
)

var checkoutStepOrder = []CheckoutStep{
	CheckoutStepAddress,
	CheckoutStepPayment,
	CheckoutStepReview,
	CheckoutStepConfirmed,
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the zero-based position of the step, or -1 when unknown.
func (s CheckoutStep) Index() int {
	for i, candidate := range checkoutStepOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Number is the 1-based step shown in the progress indicator.
func (s CheckoutStep) Number() int {
	return s.Index() + 1
}

// Before reports whether s comes strictly earlier in the flow than other.
func (s CheckoutStep) Before(other CheckoutStep) bool {
	return s.Index() < other.Index()
}

// IsTerminal reports whether no further transitions are possible.
func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepConfirmed
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	step := CheckoutStep(value)
	if !step.IsValid() {
		return "", fmt.Errorf("invalid checkout step %q", value)
	}
	return step, nil
}

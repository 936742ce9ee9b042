package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"":      PaymentMethodCOD,
		"card":  PaymentMethodCard,
		" UPI ": PaymentMethodUPI,
	}
	for in, want := range cases {
		got, err := ParsePaymentMethod(in)
		if err != nil || got != want {
			t.Fatalf("ParsePaymentMethod(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePaymentMethod("bitcoin"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestCheckoutStepOrdering(t *testing.T) {
	if !CheckoutStepAddress.Before(CheckoutStepPayment) || !CheckoutStepPayment.Before(CheckoutStepReview) {
		t.Fatal("steps out of order")
	}
	if CheckoutStepReview.Before(CheckoutStepPayment) {
		t.Fatal("review should not precede payment")
	}
	if CheckoutStepReview.Number() != 3 {
		t.Fatalf("unexpected review number %d", CheckoutStepReview.Number())
	}
	if !CheckoutStepConfirmed.IsTerminal() || CheckoutStepReview.IsTerminal() {
		t.Fatal("only confirmed is terminal")
	}
	if _, err := ParseCheckoutStep("shipping"); err == nil {
		t.Fatal("expected invalid step error")
	}
}

func TestParseProductSort(t *testing.T) {
	if s, err := ParseProductSort(""); err != nil || s != ProductSortFeatured {
		t.Fatalf("blank sort should be featured, got %q %v", s, err)
	}
	if s, err := ParseProductSort("price-high"); err != nil || s != ProductSortPriceHigh {
		t.Fatalf("unexpected %q %v", s, err)
	}
	if _, err := ParseProductSort("rating"); err == nil {
		t.Fatal("expected error for unknown sort")
	}
}

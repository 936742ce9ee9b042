package checkout

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/angelmondragon/utmart-backend/internal/cart"
	"github.com/angelmondragon/utmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/metrics"
	"github.com/angelmondragon/utmart-backend/pkg/validation"
	"github.com/shopspring/decimal"
)

const (
	// CatalogPath is where shoppers land when checkout has nothing to show.
	CatalogPath     = "/products"
	orderIDPrefix   = "ORD"
	orderIDMaxValue = 10_000_000
)

// Address is the delivery address collected on the first step.
type Address struct {
	Name    string `json:"name" validate:"required,max=100"`
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,max=12"`
	Phone   string `json:"phone" validate:"required,max=20"`
}

func (a Address) trimmed() Address {
	return Address{
		Name:    strings.TrimSpace(a.Name),
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Pincode: strings.TrimSpace(a.Pincode),
		Phone:   strings.TrimSpace(a.Phone),
	}
}

// Receipt records a confirmed order. It lives only in the session.
type Receipt struct {
	OrderID       string              `json:"order_id"`
	Items         []cart.Item         `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	Count         int                 `json:"count"`
	Savings       decimal.Decimal     `json:"savings"`
	Address       Address             `json:"address"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	PaymentLabel  string              `json:"payment_label"`
	PlacedAt      time.Time           `json:"placed_at"`
}

type cartStore interface {
	Items() []cart.Item
	Total() decimal.Decimal
	Count() int
	Savings() decimal.Decimal
	IsEmpty() bool
	ClearCart(ctx context.Context)
}

// Flow walks a shopper through address, payment, review and confirmation.
// One Flow belongs to one session and is not safe for concurrent use.
type Flow struct {
	cart    cartStore
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	orderID func() string
	now     func() time.Time

	step    enums.CheckoutStep
	address *Address
	payment enums.PaymentMethod
	paid    bool
	receipt *Receipt
}

// Option configures optional flow behavior.
type Option func(*Flow)

func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(f *Flow) {
		f.metrics = m
	}
}

// WithOrderIDGenerator replaces the random order id source.
func WithOrderIDGenerator(gen func() string) Option {
	return func(f *Flow) {
		if gen != nil {
			f.orderID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFlow starts a checkout at the address step.
func NewFlow(store cartStore, logg *logger.Logger, opts ...Option) (*Flow, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	f := &Flow{
		cart:    store,
		logg:    logg,
		orderID: randomOrderID,
		now:     time.Now,
		step:    enums.CheckoutStepAddress,
		payment: enums.DefaultPaymentMethod,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

func (f *Flow) Step() enums.CheckoutStep {
	return f.step
}

// Address returns the submitted address, or nil before the first submission.
func (f *Flow) Address() *Address {
	if f.address == nil {
		return nil
	}
	addr := *f.address
	return &addr
}

func (f *Flow) PaymentMethod() enums.PaymentMethod {
	return f.payment
}

// Receipt is nil until an order has been placed.
func (f *Flow) Receipt() *Receipt {
	return f.receipt
}

// Guard returns the redirect target when the checkout has nothing to show:
// an empty cart and no confirmed order.
func (f *Flow) Guard() (string, bool) {
	if f.receipt == nil && f.cart.IsEmpty() {
		return CatalogPath, true
	}
	return "", false
}

// SubmitAddress validates the address and advances to payment. It is only
// accepted on the address step.
func (f *Flow) SubmitAddress(ctx context.Context, addr Address) error {
	if err := f.ensureStep(enums.CheckoutStepAddress); err != nil {
		return err
	}
	addr = addr.trimmed()
	if err := validation.Struct(addr); err != nil {
		return err
	}
	f.address = &addr
	f.step = enums.CheckoutStepPayment
	f.logg.Debug(ctx, "checkout.address_submitted")
	return nil
}

// SubmitPayment records the payment method and advances to review. It is
// only accepted on the payment step. Blank input selects cash on delivery.
func (f *Flow) SubmitPayment(ctx context.Context, method string) error {
	if err := f.ensureStep(enums.CheckoutStepPayment); err != nil {
		return err
	}
	parsed, err := enums.ParsePaymentMethod(method)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]string{"payment_method": "must be one of: cod card upi"})
	}
	f.payment = parsed
	f.paid = true
	f.step = enums.CheckoutStepReview
	f.logg.Debug(ctx, "checkout.payment_submitted")
	return nil
}

// GoTo moves back to an earlier step, keeping the entered data. Moving
// forward is only possible through the submit operations.
func (f *Flow) GoTo(raw string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	target, err := enums.ParseCheckoutStep(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout step").
			WithDetails(map[string]string{"step": "must be one of: address payment review"})
	}
	if target == f.step {
		return nil
	}
	if !target.Before(f.step) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot skip ahead in checkout").
			WithDetails(map[string]any{"current": f.step, "requested": target})
	}
	f.step = target
	return nil
}

// PlaceOrder confirms the order from the review step, clears the cart and
// returns the receipt.
func (f *Flow) PlaceOrder(ctx context.Context) (*Receipt, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	if f.step != enums.CheckoutStepReview || f.address == nil || !f.paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can only be placed from the review step").
			WithDetails(map[string]any{"step": f.step})
	}
	if f.cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	receipt := &Receipt{
		OrderID:       f.orderID(),
		Items:         f.cart.Items(),
		Total:         f.cart.Total(),
		Count:         f.cart.Count(),
		Savings:       f.cart.Savings(),
		Address:       *f.address,
		PaymentMethod: f.payment,
		PaymentLabel:  f.payment.Label(),
		PlacedAt:      f.now().UTC(),
	}
	f.cart.ClearCart(ctx)
	f.receipt = receipt
	f.step = enums.CheckoutStepConfirmed
	f.metrics.IncOrderPlaced()

	ctx = f.logg.WithFields(ctx, map[string]any{
		"order_id": receipt.OrderID,
		"count":    receipt.Count,
		"total":    receipt.Total.StringFixed(2),
	})
	f.logg.Info(ctx, "checkout.order_placed")
	return receipt, nil
}

// ensureStep rejects a form submission made from any step other than want.
func (f *Flow) ensureStep(want enums.CheckoutStep) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	if f.step != want {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not on the "+want.String()+" step").
			WithDetails(map[string]any{"current": f.step, "expected": want})
	}
	return nil
}

func (f *Flow) ensureOpen() error {
	if f.step.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order already placed").
			WithDetails(map[string]any{"order_id": f.receipt.OrderID})
	}
	return nil
}

func randomOrderID() string {
	return fmt.Sprintf("%s%d", orderIDPrefix, rand.IntN(orderIDMaxValue))
}

package cart

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/utmart-backend/internal/catalog"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// StorageKey is the storage entry holding the serialized cart.
const StorageKey = "cart"

var markupRate = decimal.RequireFromString("1.1")

// Item is a cart line. It serializes as the product fields plus quantity.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Store holds one shopper's cart. Every mutation recomputes the totals and
// writes the whole collection back to storage. A Store is owned by a single
// session and is not safe for concurrent use.
type Store struct {
	storage Storage
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics

	items  []Item
	total  decimal.Decimal
	count  int
	isOpen bool
}

// Option configures optional store behavior.
type Option func(*Store)

// WithMetrics counts cart mutations.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore builds a store and hydrates it from storage. A missing or
// malformed entry yields an empty cart.
func NewStore(ctx context.Context, storage Storage, logg *logger.Logger, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Store{
		storage: storage,
		logg:    logg,
		items:   []Item{},
		total:   decimal.Zero,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.load(ctx)
	return s
}

// AddToCart increments the product's quantity, appending it with quantity 1
// when absent, and opens the cart.
func (s *Store) AddToCart(ctx context.Context, product catalog.Product) {
	if idx := s.indexOf(product.ID); idx >= 0 {
		s.items[idx].Quantity++
	} else {
		s.items = append(s.items, Item{Product: product, Quantity: 1})
	}
	s.isOpen = true
	s.commit(ctx, "add")
}

// RemoveFromCart drops the product's line. Unknown ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID uint) {
	idx := s.indexOf(productID)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.commit(ctx, "remove")
}

// UpdateQuantity sets the line quantity, clamped to at least 1. Unknown ids
// are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID uint, quantity int) {
	idx := s.indexOf(productID)
	if idx < 0 {
		return
	}
	s.items[idx].Quantity = max(1, quantity)
	s.commit(ctx, "update_quantity")
}

func (s *Store) ClearCart(ctx context.Context) {
	s.items = []Item{}
	s.commit(ctx, "clear")
}

// Items returns a copy of the lines in first-add order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Total() decimal.Decimal {
	return s.total
}

func (s *Store) Count() int {
	return s.count
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

// Savings estimates the discount against a 10% list markup, rounded to cents.
func (s *Store) Savings() decimal.Decimal {
	savings := decimal.Zero
	for _, item := range s.items {
		list := item.Price.Mul(markupRate)
		savings = savings.Add(list.Sub(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return savings.Round(2)
}

func (s *Store) Toggle() {
	s.isOpen = !s.isOpen
}

func (s *Store) Close() {
	s.isOpen = false
}

func (s *Store) IsOpen() bool {
	return s.isOpen
}

func (s *Store) indexOf(productID uint) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) recompute() {
	total := decimal.Zero
	count := 0
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}
	s.total = total
	s.count = count
}

func (s *Store) commit(ctx context.Context, op string) {
	s.recompute()
	s.metrics.IncCartOp(op)
	s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) {
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.logg.Error(ctx, "cart.encode_failed", err)
		return
	}
	if err := s.storage.SetItem(ctx, StorageKey, string(payload)); err != nil {
		s.logg.Error(ctx, "cart.persist_failed", err)
	}
}

func (s *Store) load(ctx context.Context) {
	raw, ok, err := s.storage.GetItem(ctx, StorageKey)
	if err != nil {
		s.logg.Error(ctx, "cart.load_failed", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var saved []Item
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		s.logg.Error(ctx, "cart.decode_failed", err)
		return
	}
	for _, item := range saved {
		if idx := s.indexOf(item.ID); idx >= 0 {
			s.items[idx].Quantity += max(1, item.Quantity)
			continue
		}
		item.Quantity = max(1, item.Quantity)
		s.items = append(s.items, item)
	}
	s.recompute()
}

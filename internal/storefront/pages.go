package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/utmart-backend/internal/cart"
	"github.com/angelmondragon/utmart-backend/internal/catalog"
	"github.com/angelmondragon/utmart-backend/internal/checkout"
	"github.com/angelmondragon/utmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// AllCategories selects the unfiltered product listing.
	AllCategories = "all"
	featuredLimit = 4
	relatedLimit  = 4
)

// Catalog is the read surface the pages need from the catalog API.
type Catalog interface {
	ListProducts(ctx context.Context) []catalog.Product
	ListProductsByCategory(ctx context.Context, category string) []catalog.Product
	GetProduct(ctx context.Context, id uint) *catalog.Product
	ListCategoryNames(ctx context.Context) []string
	ListCategoriesWithDetails(ctx context.Context) []catalog.Category
}

// HomePage is the landing page model.
type HomePage struct {
	Featured   []catalog.Product  `json:"featured"`
	Categories []catalog.Category `json:"categories"`
}

// CategoryFilter is one entry of the products page category sidebar.
type CategoryFilter struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// ProductsPage is the catalog listing model.
type ProductsPage struct {
	Category   string              `json:"category"`
	Sort       enums.ProductSort   `json:"sort"`
	Total      int                 `json:"total"`
	Products   []catalog.Product   `json:"products"`
	Categories []CategoryFilter    `json:"categories"`
	SortOption []enums.ProductSort `json:"sort_options"`
}

// ProductPage is the product detail model.
type ProductPage struct {
	Product catalog.Product   `json:"product"`
	InCart  int               `json:"in_cart"`
	Related []catalog.Product `json:"related"`
}

// CartView is the cart drawer model.
type CartView struct {
	Items   []cart.Item     `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Savings decimal.Decimal `json:"savings"`
	IsOpen  bool            `json:"is_open"`
}

// CheckoutView is the checkout page model.
type CheckoutView struct {
	Step          enums.CheckoutStep  `json:"step"`
	StepNumber    int                 `json:"step_number"`
	Address       *checkout.Address   `json:"address,omitempty"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	PaymentLabel  string              `json:"payment_label"`
	Cart          CartView            `json:"cart"`
	Receipt       *checkout.Receipt   `json:"receipt,omitempty"`
}

// Pages assembles page models from the catalog.
type Pages struct {
	catalog Catalog
}

func NewPages(c Catalog) (*Pages, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	return &Pages{catalog: c}, nil
}

// Home loads products and categories concurrently. Flagged products lead the
// featured row, topped up in catalog order.
func (p *Pages) Home(ctx context.Context) HomePage {
	var (
		products   []catalog.Product
		categories []catalog.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products = p.catalog.ListProducts(gctx)
		return nil
	})
	g.Go(func() error {
		categories = p.catalog.ListCategoriesWithDetails(gctx)
		return nil
	})
	_ = g.Wait()

	return HomePage{
		Featured:   pickFeatured(products, featuredLimit),
		Categories: categories,
	}
}

// Products loads the listing for category ("all" or blank for every
// product) and applies sort.
func (p *Pages) Products(ctx context.Context, category string, sort enums.ProductSort) ProductsPage {
	selected := strings.ToLower(strings.TrimSpace(category))
	if selected == "" {
		selected = AllCategories
	}

	var (
		products []catalog.Product
		names    []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if selected == AllCategories {
			products = p.catalog.ListProducts(gctx)
		} else {
			products = p.catalog.ListProductsByCategory(gctx, selected)
		}
		return nil
	})
	g.Go(func() error {
		names = p.catalog.ListCategoryNames(gctx)
		return nil
	})
	_ = g.Wait()

	counts := CountByCategory(products)
	filters := make([]CategoryFilter, 0, len(names)+1)
	filters = append(filters, CategoryFilter{Name: AllCategories, Count: len(products), Selected: selected == AllCategories})
	for _, name := range names {
		filters = append(filters, CategoryFilter{Name: name, Count: counts[name], Selected: name == selected})
	}

	sorted := SortProducts(products, sort)
	if sorted == nil {
		sorted = []catalog.Product{}
	}
	return ProductsPage{
		Category:   selected,
		Sort:       sort,
		Total:      len(sorted),
		Products:   sorted,
		Categories: filters,
		SortOption: []enums.ProductSort{
			enums.ProductSortFeatured,
			enums.ProductSortPriceLow,
			enums.ProductSortPriceHigh,
			enums.ProductSortName,
		},
	}
}

// Product loads a product with others from the same category.
func (p *Pages) Product(ctx context.Context, id uint, store *cart.Store) (*ProductPage, error) {
	product := p.catalog.GetProduct(ctx, id)
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	related := make([]catalog.Product, 0, relatedLimit)
	for _, candidate := range p.catalog.ListProductsByCategory(ctx, product.Category) {
		if candidate.ID == product.ID {
			continue
		}
		related = append(related, candidate)
		if len(related) == relatedLimit {
			break
		}
	}

	page := &ProductPage{Product: *product, Related: related}
	if store != nil {
		for _, item := range store.Items() {
			if item.ID == product.ID {
				page.InCart = item.Quantity
				break
			}
		}
	}
	return page, nil
}

// LookupProduct fetches the product a shopper is adding to the cart.
func (p *Pages) LookupProduct(ctx context.Context, id uint) (catalog.Product, error) {
	product := p.catalog.GetProduct(ctx, id)
	if product == nil {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return *product, nil
}

func NewCartView(store *cart.Store) CartView {
	return CartView{
		Items:   store.Items(),
		Total:   store.Total(),
		Count:   store.Count(),
		Savings: store.Savings(),
		IsOpen:  store.IsOpen(),
	}
}

func NewCheckoutView(flow *checkout.Flow, store *cart.Store) CheckoutView {
	return CheckoutView{
		Step:          flow.Step(),
		StepNumber:    flow.Step().Number(),
		Address:       flow.Address(),
		PaymentMethod: flow.PaymentMethod(),
		PaymentLabel:  flow.PaymentMethod().Label(),
		Cart:          NewCartView(store),
		Receipt:       flow.Receipt(),
	}
}

func pickFeatured(products []catalog.Product, limit int) []catalog.Product {
	out := make([]catalog.Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			return out
		}
		if p.Featured {
			out = append(out, p)
		}
	}
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if !p.Featured {
			out = append(out, p)
		}
	}
	return out
}

package seed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/angelmondragon/utmart-backend/internal/categories"
	product "github.com/angelmondragon/utmart-backend/internal/products"
	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const placeholderImageURL = "https://placehold.co/400x400?text="

type style struct {
	icon  string
	color string
}

var categoryStyles = map[string]style{
	"electronics":      {icon: "🔌", color: "bg-blue-100 text-blue-800"},
	"jewelery":         {icon: "💍", color: "bg-purple-100 text-purple-800"},
	"men's clothing":   {icon: "👔", color: "bg-amber-100 text-amber-800"},
	"women's clothing": {icon: "👗", color: "bg-pink-100 text-pink-800"},
}

// Product is one catalog entry to seed.
type Product struct {
	Title       string
	Price       string
	Description string
	Category    string
	Image       string
	Rate        float64
	Count       int
	Featured    bool
}

// DefaultProducts is the starter catalog loaded into an empty database.
var DefaultProducts = []Product{
	{Title: "Wireless Earbuds", Price: "1499", Description: "Bluetooth earbuds with charging case.", Category: "electronics", Rate: 4.3, Count: 210, Featured: true},
	{Title: "USB-C Power Bank", Price: "999", Description: "10000 mAh fast charging power bank.", Category: "electronics", Rate: 4.1, Count: 98},
	{Title: "Silver Pendant", Price: "2450", Description: "Sterling silver pendant on a fine chain.", Category: "jewelery", Rate: 4.6, Count: 44, Featured: true},
	{Title: "Gold Plated Studs", Price: "799", Description: "Everyday stud earrings.", Category: "jewelery", Rate: 3.9, Count: 67},
	{Title: "Cotton Kurta", Price: "1199", Description: "Breathable cotton kurta for daily wear.", Category: "men's clothing", Rate: 4.2, Count: 130},
	{Title: "Slim Fit Chinos", Price: "1599", Description: "Stretch chinos in khaki.", Category: "men's clothing", Rate: 4.0, Count: 75},
	{Title: "Printed Saree", Price: "2199", Description: "Georgette saree with floral print.", Category: "women's clothing", Rate: 4.5, Count: 52, Featured: true},
	{Title: "Denim Jacket", Price: "1899", Description: "Washed denim jacket.", Category: "women's clothing", Rate: 4.4, Count: 88},
}

// Seeder loads a starter catalog into an empty database.
type Seeder struct {
	categories categories.Service
	products   product.Service
	logg       *logger.Logger
}

func NewSeeder(categorySvc categories.Service, productSvc product.Service, logg *logger.Logger) (*Seeder, error) {
	if categorySvc == nil || productSvc == nil {
		return nil, fmt.Errorf("category and product services required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Seeder{categories: categorySvc, products: productSvc, logg: logg}, nil
}

// Run seeds categories then products. It does nothing when categories
// already exist and reports whether anything was written.
func (s *Seeder) Run(ctx context.Context, products []Product) (bool, error) {
	existing, err := s.categories.ListNames(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		s.logg.Info(s.logg.WithField(ctx, "categories", len(existing)), "seed.skipped")
		return false, nil
	}

	seen := map[string]bool{}
	for _, p := range products {
		name := strings.ToLower(strings.TrimSpace(p.Category))
		if seen[name] {
			continue
		}
		seen[name] = true
		st, ok := categoryStyles[name]
		if !ok {
			st = style{icon: models.DefaultCategoryIcon, color: models.DefaultCategoryColor}
		}
		description := titleCase(name) + " products"
		if _, err := s.categories.Create(ctx, categories.CreateCategoryInput{
			Name:        name,
			Description: &description,
			Icon:        st.icon,
			Color:       st.color,
		}); err != nil {
			return false, fmt.Errorf("seeding category %q: %w", name, err)
		}
	}

	for _, p := range products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return false, fmt.Errorf("seeding product %q: %w", p.Title, err)
		}
		rate, count, featured := p.Rate, p.Count, p.Featured
		image := p.Image
		if image == "" {
			image = placeholderImageURL + url.QueryEscape(p.Title)
		}
		if _, err := s.products.CreateProduct(ctx, product.CreateProductInput{
			Title:       p.Title,
			Price:       price,
			Description: p.Description,
			Category:    p.Category,
			Image:       image,
			RatingRate:  &rate,
			RatingCount: &count,
			Featured:    &featured,
		}); err != nil {
			return false, fmt.Errorf("seeding product %q: %w", p.Title, err)
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"categories": len(seen),
		"products":   len(products),
	}), "seed.completed")
	return true, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

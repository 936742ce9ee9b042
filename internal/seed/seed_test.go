package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/angelmondragon/utmart-backend/internal/categories"
	product "github.com/angelmondragon/utmart-backend/internal/products"
	"github.com/angelmondragon/utmart-backend/pkg/db/dbtest"
	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"github.com/angelmondragon/utmart-backend/pkg/enums"
)

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newTestSeeder(t *testing.T) (*Seeder, categories.Service, product.Service) {
	t.Helper()
	client := dbtest.Open(t)
	categoryRepo := categories.NewRepository(client.DB())
	categorySvc, err := categories.NewService(categoryRepo, client)
	mustNoErr(t, err)
	productSvc, err := product.NewService(product.NewRepository(client.DB()), categoryRepo, client)
	mustNoErr(t, err)
	seeder, err := NewSeeder(categorySvc, productSvc, nil)
	mustNoErr(t, err)
	return seeder, categorySvc, productSvc
}

func TestRunSeedsStyledCatalogOnce(t *testing.T) {
	seeder, categorySvc, productSvc := newTestSeeder(t)
	ctx := context.Background()

	wrote, err := seeder.Run(ctx, DefaultProducts)
	mustNoErr(t, err)
	if !wrote {
		t.Fatal("expected first run to write")
	}

	details, err := categorySvc.ListWithProducts(ctx)
	mustNoErr(t, err)
	if len(details) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(details))
	}
	styled := map[string]categories.CategoryWithRefsDTO{}
	for _, c := range details {
		styled[c.Name] = c
	}
	if got := styled["women's clothing"].Color; got != "bg-pink-100 text-pink-800" {
		t.Fatalf("unexpected color %q", got)
	}
	electronics := styled["electronics"]
	if electronics.Description == nil || *electronics.Description != "Electronics products" {
		t.Fatalf("unexpected description %v", electronics.Description)
	}
	if len(electronics.Products) != 2 {
		t.Fatalf("expected 2 electronics products, got %d", len(electronics.Products))
	}

	products, err := productSvc.ListProducts(ctx, enums.ProductSortFeatured)
	mustNoErr(t, err)
	if len(products) != len(DefaultProducts) {
		t.Fatalf("expected %d products, got %d", len(DefaultProducts), len(products))
	}
	if !strings.HasPrefix(products[0].Image, placeholderImageURL) {
		t.Fatalf("expected placeholder image, got %q", products[0].Image)
	}

	wrote, err = seeder.Run(ctx, DefaultProducts)
	mustNoErr(t, err)
	if wrote {
		t.Fatal("second run should be a no-op")
	}
	products, err = productSvc.ListProducts(ctx, enums.ProductSortFeatured)
	mustNoErr(t, err)
	if len(products) != len(DefaultProducts) {
		t.Fatalf("second run changed product count to %d", len(products))
	}
}

func TestRunFallsBackToDefaultStyle(t *testing.T) {
	seeder, categorySvc, _ := newTestSeeder(t)
	ctx := context.Background()

	_, err := seeder.Run(ctx, []Product{{Title: "Basmati Rice", Price: "120", Description: "Aged long grain rice.", Category: "Grains"}})
	mustNoErr(t, err)

	details, err := categorySvc.ListWithProducts(ctx)
	mustNoErr(t, err)
	if len(details) != 1 {
		t.Fatalf("expected 1 category, got %d", len(details))
	}
	got := details[0]
	if got.Name != "grains" || got.Icon != models.DefaultCategoryIcon || got.Color != models.DefaultCategoryColor {
		t.Fatalf("unexpected category %+v", got)
	}
}

func TestRunRejectsBadPrice(t *testing.T) {
	seeder, _, _ := newTestSeeder(t)
	if _, err := seeder.Run(context.Background(), []Product{{Title: "Oops", Price: "free", Category: "misc"}}); err == nil {
		t.Fatal("expected error for unparsable price")
	}
}

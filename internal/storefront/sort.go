package storefront

import (
	"slices"
	"strings"

	"github.com/angelmondragon/utmart-backend/internal/catalog"
	"github.com/angelmondragon/utmart-backend/pkg/enums"
)

// SortProducts returns a sorted copy. Featured keeps the catalog order; ties
// keep their relative order.
func SortProducts(products []catalog.Product, sort enums.ProductSort) []catalog.Product {
	out := slices.Clone(products)
	switch sort {
	case enums.ProductSortPriceLow:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case enums.ProductSortPriceHigh:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case enums.ProductSortName:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
	return out
}

// CountByCategory tallies products per category name.
func CountByCategory(products []catalog.Product) map[string]int {
	counts := make(map[string]int, len(products))
	for _, p := range products {
		counts[p.Category]++
	}
	return counts
}

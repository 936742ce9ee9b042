package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/utmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// ParseIDParam reads a positive numeric chi URL parameter.
func ParseIDParam(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" is required").WithDetails(map[string]any{"field": key})
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return uint(value), nil
}

// ParseSortQuery reads ?sort=, defaulting to featured.
func ParseSortQuery(r *http.Request) (enums.ProductSort, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("sort"))
	sort, err := enums.ParseProductSort(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid sort").WithDetails(map[string]any{
			"field":   "sort",
			"allowed": []enums.ProductSort{enums.ProductSortFeatured, enums.ProductSortPriceLow, enums.ProductSortPriceHigh, enums.ProductSortName},
		})
	}
	return sort, nil
}

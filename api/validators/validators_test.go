package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/utmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

type sampleBody struct {
	Title string  `json:"title" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Milk","price":2.5}`))
	var body sampleBody
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Title != "Milk" || body.Price != 2.5 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Milk","colour":"white"}`))
	var body sampleBody
	if err := DecodeJSONBody(r, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"price":-1}`))
	var body sampleBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["title"] != "is required" || details["price"] != "must be greater than or equal to 0" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var body sampleBody
	err := DecodeJSONBody(r, &body)
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "request body is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "17")
	id, err := ParseIDParam(r, "id")
	if err != nil || id != 17 {
		t.Fatalf("expected 17, got %d %v", id, err)
	}
	for _, raw := range []string{"", "0", "-3", "abc"} {
		r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw)
		if _, err := ParseIDParam(r, "id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %q", raw)
		}
	}
}

func TestParseSortQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?sort=price-low", nil)
	if sort, err := ParseSortQuery(r); err != nil || sort != enums.ProductSortPriceLow {
		t.Fatalf("unexpected %q %v", sort, err)
	}
	r = httptest.NewRequest(http.MethodGet, "/?sort=cheapest", nil)
	if _, err := ParseSortQuery(r); err == nil {
		t.Fatal("expected invalid sort")
	}
}

func TestBearerToken(t *testing.T) {
	if tok, err := BearerToken("Bearer abc.def"); err != nil || tok != "abc.def" {
		t.Fatalf("unexpected %q %v", tok, err)
	}
	for _, h := range []string{"", "Basic abc", "Bearer ", "abc"} {
		if _, err := BearerToken(h); err == nil {
			t.Fatalf("expected error for %q", h)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  Fruits "); got != "fruits" {
		t.Fatalf("unexpected %q", got)
	}
}

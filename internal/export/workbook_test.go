package export

import (
	"bytes"
	"testing"

	product "github.com/angelmondragon/utmart-backend/internal/products"
	"github.com/angelmondragon/utmart-backend/pkg/types"
	"github.com/xuri/excelize/v2"
)

func TestWriteCatalogRoundTrip(t *testing.T) {
	products := []product.ProductDTO{
		{ID: 1, Title: "Basmati Rice", Category: "grains", Price: 120.5, Stock: 10, Rating: types.Rating{Rate: 4.5, Count: 12}, Featured: true},
		{ID: 2, Title: "Toor Dal", Category: "pulses", Price: 95, Stock: 0},
	}

	var buf bytes.Buffer
	if err := WriteCatalog(&buf, products); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][1] != "Title" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][1] != "Basmati Rice" || rows[1][2] != "grains" || rows[1][3] != "120.5" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][1] != "Toor Dal" || rows[2][4] != "0" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

func TestWriteCatalogEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCatalog(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

package catalog

import (
	"time"

	"github.com/angelmondragon/utmart-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is the storefront's view of a catalog product.
type Product struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
	Rating      types.Rating    `json:"rating"`
	Featured    bool            `json:"featured"`
	CategoryID  *uint           `json:"category_id,omitempty"`
}

// Category is a catalog category with whatever product data the endpoint embeds.
type Category struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Icon        string            `json:"icon"`
	Color       string            `json:"color"`
	Products    []CategoryProduct `json:"products"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CategoryProduct is a product embedded in a category response. The details
// listing carries only ID and Title.
type CategoryProduct struct {
	ID     uint            `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Stock  int             `json:"stock"`
	Rating types.Rating    `json:"rating"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rating is the aggregate review score stored inline on a product.
type Rating struct {
	Rate  float64 `gorm:"column:rate;not null"`
	Count int     `gorm:"column:count;not null"`
}

// Product is a catalog listing. Category holds the lowercased category name
// and is not rewritten when the referenced category is renamed.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string          `gorm:"column:title;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Description string          `gorm:"column:description;type:text;not null"`
	Category    string          `gorm:"column:category;not null;index"`
	Image       string          `gorm:"column:image;not null"`
	Stock       int             `gorm:"column:stock;not null"`
	Rating      Rating          `gorm:"embedded;embeddedPrefix:rating_"`
	Featured    bool            `gorm:"column:featured;not null"`
	CategoryID  *uint           `gorm:"column:category_id;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

package product

import (
	"context"

	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"github.com/angelmondragon/utmart-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository wraps product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every product in the requested order.
func (r *Repository) List(ctx context.Context, sort enums.ProductSort) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order(orderClause(sort)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCategory matches the denormalized category name.
func (r *Repository) ListByCategory(ctx context.Context, category string, sort enums.ProductSort) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order(orderClause(sort)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save writes every mutable column, zero values included.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(product).
		Select("title", "price", "description", "category", "image", "stock",
			"rating_rate", "rating_count", "featured", "category_id", "updated_at").
		Updates(product).Error
}

// Delete removes the product and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func orderClause(sort enums.ProductSort) string {
	switch sort {
	case enums.ProductSortPriceLow:
		return "price ASC, id ASC"
	case enums.ProductSortPriceHigh:
		return "price DESC, id ASC"
	case enums.ProductSortName:
		return "LOWER(title) ASC, id ASC"
	default:
		return "id ASC"
	}
}

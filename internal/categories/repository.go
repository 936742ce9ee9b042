package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wraps category persistence.
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

// List returns every category ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWithProductRefs returns every category with the id and title of its products.
func (r *Repository) ListWithProductRefs(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "category_id").Order("id ASC")
		}).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a category. When withProducts is set the referencing
// products are preloaded.
func (r *Repository) FindByID(ctx context.Context, id uint, withProducts bool) (*models.Category, error) {
	q := r.db.WithContext(ctx)
	if withProducts {
		q = q.Preload("Products", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		})
	}
	var category models.Category
	if err := q.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName looks a category up by its normalized name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).
		Model(category).
		Select("name", "description", "icon", "color", "updated_at").
		Updates(category).Error
}

// CountProducts returns how many products reference the category.
func (r *Repository) CountProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// Resolve returns the category whose name matches rawName after
// normalization, creating it with a generated description when missing.
// Concurrent creators converge on the same row.
func (r *Repository) Resolve(ctx context.Context, rawName string) (*models.Category, error) {
	name := strings.ToLower(strings.TrimSpace(rawName))
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	existing, err := r.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	description := fmt.Sprintf("%s category", strings.TrimSpace(rawName))
	created := &models.Category{
		Name:        name,
		Description: &description,
		Icon:        models.DefaultCategoryIcon,
		Color:       models.DefaultCategoryColor,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(created).Error; err != nil {
		return nil, err
	}
	if created.ID != 0 {
		return created, nil
	}
	return r.FindByName(ctx, name)
}

package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/utmart-backend/internal/categories"
	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"github.com/angelmondragon/utmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultStock = 10
	maxRating    = 5
)

// Service exposes catalog product operations.
type Service interface {
	ListProducts(ctx context.Context, sort enums.ProductSort) ([]ProductDTO, error)
	ListByCategory(ctx context.Context, category string, sort enums.ProductSort) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uint) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uint) error
}

// CreateProductInput holds the validated payload to create a product.
// Nil optionals take the catalog defaults.
type CreateProductInput struct {
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
	Stock       *int
	RatingRate  *float64
	RatingCount *int
	Featured    *bool
}

// UpdateProductInput holds optional mutation values for a product. Blank
// strings keep the stored value.
type UpdateProductInput struct {
	Title       *string
	Price       *decimal.Decimal
	Description *string
	Category    *string
	Image       *string
	Stock       *int
	RatingRate  *float64
	RatingCount *int
	Featured    *bool
}

type categoryResolver interface {
	Resolve(ctx context.Context, rawName string) (*models.Category, error)
}

type service struct {
	repo       *Repository
	categories *categories.Repository
	dbClient   *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categoryRepo *categories.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, categories: categoryRepo, dbClient: dbClient}, nil
}

func (s *service) ListProducts(ctx context.Context, sort enums.ProductSort) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, sort)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return toProductDTOs(rows), nil
}

func (s *service) ListByCategory(ctx context.Context, category string, sort enums.ProductSort) ([]ProductDTO, error) {
	rows, err := s.repo.ListByCategory(ctx, normalizeCategory(category), sort)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products by category")
	}
	return toProductDTOs(rows), nil
}

func (s *service) GetProduct(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	dto := toProductDTO(product)
	return &dto, nil
}

// CreateProduct inserts the product, creating its category first when no
// category with that name exists yet.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	product := &models.Product{
		Title:       strings.TrimSpace(input.Title),
		Price:       input.Price,
		Description: strings.TrimSpace(input.Description),
		Category:    normalizeCategory(input.Category),
		Image:       strings.TrimSpace(input.Image),
		Stock:       DefaultStock,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.RatingRate != nil {
		product.Rating.Rate = *input.RatingRate
	}
	if input.RatingCount != nil {
		product.Rating.Count = *input.RatingCount
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		category, err := resolveCategory(ctx, s.categories.WithTx(tx), input.Category)
		if err != nil {
			return err
		}
		product.CategoryID = &category.ID
		if err := s.repo.WithTx(tx).Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error) {
	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}

		if input.Category != nil {
			if name := normalizeCategory(*input.Category); name != "" && name != product.Category {
				category, err := resolveCategory(ctx, s.categories.WithTx(tx), *input.Category)
				if err != nil {
					return err
				}
				product.Category = name
				product.CategoryID = &category.ID
			}
		}
		applyUpdate(product, input)
		if err := validateProduct(product); err != nil {
			return err
		}

		if err := txRepo.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toProductDTO(updated)
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func resolveCategory(ctx context.Context, resolver categoryResolver, raw string) (*models.Category, error) {
	category, err := resolver.Resolve(ctx, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve category")
	}
	return category, nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if v := trimmed(input.Title); v != "" {
		product.Title = v
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if v := trimmed(input.Description); v != "" {
		product.Description = v
	}
	if v := trimmed(input.Image); v != "" {
		product.Image = v
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.RatingRate != nil {
		product.Rating.Rate = *input.RatingRate
	}
	if input.RatingCount != nil {
		product.Rating.Count = *input.RatingCount
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
}

func validateProduct(p *models.Product) error {
	details := map[string]string{}
	if p.Title == "" {
		details["title"] = "is required"
	}
	if p.Description == "" {
		details["description"] = "is required"
	}
	if p.Category == "" {
		details["category"] = "is required"
	}
	if p.Image == "" {
		details["image"] = "is required"
	}
	if p.Price.IsNegative() {
		details["price"] = "cannot be negative"
	}
	if p.Stock < 0 {
		details["stock"] = "cannot be negative"
	}
	if p.Rating.Rate < 0 || p.Rating.Rate > maxRating {
		details["rating_rate"] = "must be between 0 and 5"
	}
	if p.Rating.Count < 0 {
		details["rating_count"] = "cannot be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}

func normalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

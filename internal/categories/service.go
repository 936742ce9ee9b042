package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes category management operations.
type Service interface {
	ListNames(ctx context.Context) ([]string, error)
	ListWithProducts(ctx context.Context) ([]CategoryWithRefsDTO, error)
	Get(ctx context.Context, id uint) (*CategoryWithProductsDTO, error)
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uint, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uint) error
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	Icon        string
	Color       string
}

// UpdateCategoryInput carries replacement values; blank fields keep the
// stored value.
type UpdateCategoryInput struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a category service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

func (s *service) ListWithProducts(ctx context.Context) ([]CategoryWithRefsDTO, error) {
	rows, err := s.repo.ListWithProductRefs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories with products")
	}
	out := make([]CategoryWithRefsDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toCategoryWithRefsDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uint) (*CategoryWithProductsDTO, error) {
	category, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, mapLookupError(err, "db: load category")
	}
	dto := toCategoryWithProductsDTO(category)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := normalizeName(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
		Icon:        firstNonBlank(input.Icon, models.DefaultCategoryIcon),
		Color:       firstNonBlank(input.Color, models.DefaultCategoryColor),
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureNameFree(ctx, txRepo, name); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, category); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nameTakenError(name)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toCategoryDTO(category)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateCategoryInput) (*CategoryDTO, error) {
	var updated *models.Category
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		category, err := txRepo.FindByID(ctx, id, false)
		if err != nil {
			return mapLookupError(err, "db: load category")
		}

		if name := normalizeName(input.Name); name != "" && name != category.Name {
			if err := ensureNameFree(ctx, txRepo, name); err != nil {
				return err
			}
			category.Name = name
		}
		if desc := strings.TrimSpace(input.Description); desc != "" {
			category.Description = &desc
		}
		category.Icon = firstNonBlank(input.Icon, category.Icon)
		category.Color = firstNonBlank(input.Color, category.Color)

		if err := txRepo.Save(ctx, category); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nameTakenError(category.Name)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toCategoryDTO(updated)
	return &dto, nil
}

// Delete removes a category that no product references.
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindByID(ctx, id, false); err != nil {
			return mapLookupError(err, "db: load category")
		}

		count, err := txRepo.CountProducts(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count category products")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot delete category because it is being used by products").
				WithDetails(map[string]any{"count": count})
		}

		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
		}
		return nil
	})
}

func ensureNameFree(ctx context.Context, repo *Repository, name string) error {
	_, err := repo.FindByName(ctx, name)
	switch {
	case err == nil:
		return nameTakenError(name)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup category name")
	}
}

func nameTakenError(name string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "category already exists").
		WithDetails(map[string]any{"name": name})
}

func mapLookupError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func firstNonBlank(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

package categories

import (
	"time"

	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"github.com/angelmondragon/utmart-backend/pkg/types"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithRefsDTO lists a category with the products filed under it.
type CategoryWithRefsDTO struct {
	CategoryDTO
	Products []ProductRefDTO `json:"products"`
}

// CategoryWithProductsDTO is the single-category view.
type CategoryWithProductsDTO struct {
	CategoryDTO
	Products []ProductSummaryDTO `json:"products"`
}

type ProductRefDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type ProductSummaryDTO struct {
	ID     uint         `json:"id"`
	Title  string       `json:"title"`
	Price  float64      `json:"price"`
	Image  string       `json:"image"`
	Stock  int          `json:"stock"`
	Rating types.Rating `json:"rating"`
}

func toCategoryDTO(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryWithRefsDTO(c *models.Category) CategoryWithRefsDTO {
	refs := make([]ProductRefDTO, 0, len(c.Products))
	for _, p := range c.Products {
		refs = append(refs, ProductRefDTO{ID: p.ID, Title: p.Title})
	}
	return CategoryWithRefsDTO{CategoryDTO: toCategoryDTO(c), Products: refs}
}

func toCategoryWithProductsDTO(c *models.Category) CategoryWithProductsDTO {
	products := make([]ProductSummaryDTO, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, ProductSummaryDTO{
			ID:     p.ID,
			Title:  p.Title,
			Price:  p.Price.InexactFloat64(),
			Image:  p.Image,
			Stock:  p.Stock,
			Rating: types.Rating{Rate: p.Rating.Rate, Count: p.Rating.Count},
		})
	}
	return CategoryWithProductsDTO{CategoryDTO: toCategoryDTO(c), Products: products}
}

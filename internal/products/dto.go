package product

import (
	"time"

	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"github.com/angelmondragon/utmart-backend/pkg/types"
)

// ProductDTO represents the product payload returned to clients. Price is a
// JSON number with cents precision.
type ProductDTO struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Price       float64      `json:"price"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Image       string       `json:"image"`
	Stock       int          `json:"stock"`
	Rating      types.Rating `json:"rating"`
	Featured    bool         `json:"featured"`
	CategoryID  *uint        `json:"category_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func toProductDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price.Round(2).InexactFloat64(),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Stock:       p.Stock,
		Rating:      types.Rating{Rate: p.Rating.Rate, Count: p.Rating.Count},
		Featured:    p.Featured,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toProductDTO(&rows[i]))
	}
	return out
}

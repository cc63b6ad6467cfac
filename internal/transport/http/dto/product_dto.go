package dto

import "github.com/krjofficial/mern-ecomm/internal/domain/model"

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

type ProductListResponse struct {
	Products []model.Product `json:"products"`
}

type RecommendedProduct struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

func NewRecommendedProducts(products []model.Product) []RecommendedProduct {
	out := make([]RecommendedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, RecommendedProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			Price:       p.Price,
		})
	}
	return out
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// ProductRequest is the admin product form. Price accepts a JSON number or string.
type ProductRequest struct {
	CategoryID  int64             `json:"categoryId"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	Images      []string          `json:"images"`
	Specs       map[string]string `json:"specs"`
	Featured    bool              `json:"featured"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProductResponse struct {
	ID            int64             `json:"id"`
	CategoryID    int64             `json:"categoryId,omitempty"`
	Category      string            `json:"category,omitempty"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Price         string            `json:"price"`
	Stock         int               `json:"stock"`
	InStock       bool              `json:"inStock"`
	Images        []string          `json:"images"`
	Specs         map[string]string `json:"specs"`
	Featured      bool              `json:"featured"`
	RatingAverage float64           `json:"ratingAverage"`
	RatingCount   int               `json:"ratingCount"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

func NewProductResponse(p *model.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	specs := p.Specs
	if specs == nil {
		specs = map[string]string{}
	}
	return ProductResponse{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		Category:      p.CategoryName,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         Money(p.Price),
		Stock:         p.Stock,
		InStock:       p.Stock > 0,
		Images:        images,
		Specs:         specs,
		Featured:      p.Featured,
		RatingAverage: p.RatingAverage,
		RatingCount:   p.RatingCount,
		CreatedAt:     p.CreatedAt,
	}
}

func NewProductList(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}

func NewCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products (panels, inverters, batteries...).
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
}

// Product is a catalog entry shared read-only by carts, orders and reviews.
type Product struct {
	ID            int64
	CategoryID    int64
	CategoryName  string
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	Stock         int
	Images        []string
	Specs         map[string]string
	Featured      bool
	RatingAverage float64
	RatingCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductSort enumerates catalog orderings.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	CategoryID int64
	Category   string
	Search     string
	MinPrice   decimal.NullDecimal
	MaxPrice   decimal.NullDecimal
	Featured   bool
	Sort       ProductSort
	Page       Page
}

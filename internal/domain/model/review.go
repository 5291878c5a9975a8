package model

import (
	"math"
	"time"
)

// Review is a user's single rating of a product.
type Review struct {
	ID        int64
	UserID    int64
	UserName  string
	ProductID int64
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingSummary aggregates reviews of a product.
type RatingSummary struct {
	Average      float64
	Count        int
	Distribution map[int]int
}

// NewRatingSummary builds a summary from per-star counts.
func NewRatingSummary(counts map[int]int) RatingSummary {
	summary := RatingSummary{Distribution: make(map[int]int, 5)}
	var weighted int
	for star := 1; star <= 5; star++ {
		n := counts[star]
		summary.Distribution[star] = n
		summary.Count += n
		weighted += star * n
	}
	if summary.Count > 0 {
		summary.Average = math.Round(float64(weighted)/float64(summary.Count)*100) / 100
	}
	return summary
}

package dto

import (
	"strconv"
	"time"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	ProductID int64     `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RatingSummaryResponse struct {
	Average      float64        `json:"average"`
	Count        int            `json:"count"`
	Distribution map[string]int `json:"distribution"`
}

type ReviewListResponse struct {
	Reviews    []ReviewResponse      `json:"reviews"`
	Summary    RatingSummaryResponse `json:"summary"`
	Pagination Pagination            `json:"pagination"`
}

func NewReviewResponse(r *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func NewRatingSummaryResponse(s model.RatingSummary) RatingSummaryResponse {
	dist := make(map[string]int, len(s.Distribution))
	for star, n := range s.Distribution {
		dist[strconv.Itoa(star)] = n
	}
	return RatingSummaryResponse{Average: s.Average, Count: s.Count, Distribution: dist}
}

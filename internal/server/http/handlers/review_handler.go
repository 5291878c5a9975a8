package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/solarstore/internal/server/http/dto"
)

// ReviewHandler serves product reviews.
type ReviewHandler struct {
	facade ReviewFacade
}

func NewReviewHandler(facade ReviewFacade) *ReviewHandler {
	return &ReviewHandler{facade: facade}
}

// List handles GET /api/products/:id/reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	productID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	page := parsePage(c)
	reviews, total, summary, err := h.facade.Reviews(c.Request.Context(), productID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.NewReviewResponse(&reviews[i]))
	}
	respond(c, http.StatusOK, dto.ReviewListResponse{
		Reviews:    out,
		Summary:    dto.NewRatingSummaryResponse(summary),
		Pagination: dto.NewPagination(page, total),
	})
}

// Upsert handles POST /api/products/:id/reviews.
func (h *ReviewHandler) Upsert(c *gin.Context) {
	productID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.facade.UpsertReview(c.Request.Context(), CurrentUserID(c), productID, req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewReviewResponse(review))
}

// Delete handles DELETE /api/products/:id/reviews.
func (h *ReviewHandler) Delete(c *gin.Context) {
	productID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteReview(c.Request.Context(), CurrentUserID(c), productID); err != nil {
		writeError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "review deleted")
}

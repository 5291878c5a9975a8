package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

const maxCommentLength = 2000

// ReviewUseCase manages product reviews.
type ReviewUseCase struct {
	reviews repository.ReviewRepository
	catalog repository.CatalogRepository
}

// NewReviewUseCase constructs ReviewUseCase.
func NewReviewUseCase(reviews repository.ReviewRepository, catalog repository.CatalogRepository) *ReviewUseCase {
	return &ReviewUseCase{reviews: reviews, catalog: catalog}
}

// List returns a page of reviews with the product's rating summary.
func (u *ReviewUseCase) List(ctx context.Context, productID int64, page model.Page) ([]model.Review, int, model.RatingSummary, error) {
	if _, err := u.catalog.GetProduct(ctx, productID); err != nil {
		return nil, 0, model.RatingSummary{}, err
	}
	reviews, total, err := u.reviews.ListByProduct(ctx, productID, model.NewPage(page.Number, page.Size))
	if err != nil {
		return nil, 0, model.RatingSummary{}, err
	}
	counts, err := u.reviews.Distribution(ctx, productID)
	if err != nil {
		return nil, 0, model.RatingSummary{}, err
	}
	return reviews, total, model.NewRatingSummary(counts), nil
}

// Upsert creates or replaces the caller's single review of a product.
func (u *ReviewUseCase) Upsert(ctx context.Context, userID, productID int64, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domainErrors.ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return nil, domainErrors.NewValidationError("comment")
	}
	if _, err := u.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return u.reviews.Upsert(ctx, &model.Review{UserID: userID, ProductID: productID, Rating: rating, Comment: comment})
}

func (u *ReviewUseCase) Delete(ctx context.Context, userID, productID int64) error {
	return u.reviews.Delete(ctx, userID, productID)
}

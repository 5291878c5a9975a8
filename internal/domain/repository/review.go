package repository

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// ReviewRepository manages product reviews and rating aggregates.
type ReviewRepository interface {
	Upsert(ctx context.Context, review *model.Review) (*model.Review, error)
	Delete(ctx context.Context, userID, productID int64) error
	ListByProduct(ctx context.Context, productID int64, page model.Page) ([]model.Review, int, error)
	Distribution(ctx context.Context, productID int64) (map[int]int, error)
}

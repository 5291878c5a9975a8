package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

type reviewRepository struct {
	storage *Storage
}

const refreshRating = `UPDATE products SET
            rating_average = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id=$1), 0),
            rating_count = (SELECT COUNT(*) FROM reviews WHERE product_id=$1)
        WHERE id=$1`

func (r *reviewRepository) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	saved := *review
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const upsert = `INSERT INTO reviews (user_id, product_id, rating, comment)
                        VALUES ($1, $2, $3, $4)
                        ON CONFLICT (user_id, product_id) DO UPDATE
                        SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
                        RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, upsert, review.UserID, review.ProductID, review.Rating, review.Comment).
			Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec(ctx, refreshRating, review.ProductID); err != nil {
			return fmt.Errorf("refresh rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *reviewRepository) Delete(ctx context.Context, userID, productID int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE user_id=$1 AND product_id=$2`, userID, productID)
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		if _, err := tx.Exec(ctx, refreshRating, productID); err != nil {
			return fmt.Errorf("refresh rating: %w", err)
		}
		return nil
	})
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID int64, page model.Page) ([]model.Review, int, error) {
	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id=$1`, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	const query = `SELECT r.id, r.user_id, u.name, r.product_id, r.rating, r.comment, r.created_at, r.updated_at
                   FROM reviews r JOIN users u ON u.id = r.user_id
                   WHERE r.product_id=$1 ORDER BY r.created_at DESC, r.id DESC LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, productID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var result []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *reviewRepository) Distribution(ctx context.Context, productID int64) (map[int]int, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT rating, COUNT(*) FROM reviews WHERE product_id=$1 GROUP BY rating`, productID)
	if err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int, 5)
	for rows.Next() {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, err
		}
		counts[rating] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

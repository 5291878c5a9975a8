package postgres

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

type notificationRepository struct {
	storage *Storage
}

func insertNotification(ctx context.Context, q querier, n *model.Notification) error {
	const query = `INSERT INTO notifications (user_id, kind, title, message, link)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	if err := q.QueryRow(ctx, query, n.UserID, n.Kind, n.Title, n.Message, n.Link).Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return insertNotification(ctx, r.storage.pool, n)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, page model.Page) ([]model.Notification, int, error) {
	var where whereBuilder
	where.add("user_id = ?", userID)
	if unreadOnly {
		where.addRaw("NOT is_read")
	}

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `SELECT id, user_id, kind, title, message, link, is_read, created_at FROM notifications` +
		where.sql() + ` ORDER BY created_at DESC, id DESC` + where.paginate(page)
	rows, err := r.storage.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT is_read`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// SetRead changes the read flag of a notification owned by userID.
func (r *notificationRepository) SetRead(ctx context.Context, userID, id int64, read bool) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE notifications SET is_read=$1 WHERE id=$2 AND user_id=$3`, read, id, userID)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

package repository

import (
	"context"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// NotificationRepository manages user inboxes.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, page model.Page) ([]model.Notification, int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	SetRead(ctx context.Context, userID, id int64, read bool) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// OutboxRepository queues outbound email for the dispatcher.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg model.EmailMessage) error
	ClaimBatch(ctx context.Context, limit int) ([]model.EmailMessage, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}

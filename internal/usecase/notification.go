package usecase

import (
	"context"

	"github.com/polkiloo/solarstore/internal/adapter/mailer"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
)

// NotificationUseCase serves the user inbox and feeds the email dispatcher.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
	outbox        repository.OutboxRepository
	mailer        mailer.Mailer
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(n repository.NotificationRepository, o repository.OutboxRepository, m mailer.Mailer) *NotificationUseCase {
	return &NotificationUseCase{notifications: n, outbox: o, mailer: m}
}

// List returns the caller's notifications, newest first.
func (u *NotificationUseCase) List(ctx context.Context, userID int64, unreadOnly bool, page model.Page) ([]model.Notification, int, error) {
	return u.notifications.ListByUser(ctx, userID, unreadOnly, model.NewPage(page.Number, page.Size))
}

func (u *NotificationUseCase) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return u.notifications.CountUnread(ctx, userID)
}

// SetRead toggles the read flag of a notification owned by the caller.
func (u *NotificationUseCase) SetRead(ctx context.Context, userID, id int64, read bool) error {
	return u.notifications.SetRead(ctx, userID, id, read)
}

func (u *NotificationUseCase) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return u.notifications.MarkAllRead(ctx, userID)
}

// PendingEmails claims a batch of queued emails.
func (u *NotificationUseCase) PendingEmails(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	return u.outbox.ClaimBatch(ctx, limit)
}

func (u *NotificationUseCase) SendEmail(ctx context.Context, msg model.EmailMessage) error {
	return u.mailer.Send(ctx, msg)
}

func (u *NotificationUseCase) MarkEmailSent(ctx context.Context, id int64) error {
	return u.outbox.MarkSent(ctx, id)
}

func (u *NotificationUseCase) MarkEmailFailed(ctx context.Context, id int64, reason string) error {
	return u.outbox.MarkFailed(ctx, id, reason)
}

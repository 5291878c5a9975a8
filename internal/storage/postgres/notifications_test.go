package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

func TestNotificationRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &notificationRepository{storage: storage}
	ctx := context.Background()

	n := &model.Notification{UserID: 7, Kind: model.NotificationAccount, Title: "Welcome", Message: "Hi"}
	mock.ExpectQuery("INSERT INTO notifications").WithArgs(int64(7), model.NotificationAccount, "Welcome", "Hi", "").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	if err := repo.Create(ctx, n); err != nil || n.ID != 1 {
		t.Fatalf("unexpected result %+v err=%v", n, err)
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND NOT is_read`).WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).WithArgs(int64(7), 2, 2).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "user_id", "kind", "title", "message", "link", "is_read", "created_at"}).
			AddRow(int64(5), int64(7), model.NotificationOrder, "Shipped", "Your order shipped", "/orders/x", false, time.Now()))
	list, total, err := repo.ListByUser(ctx, 7, true, model.NewPage(2, 2))
	if err != nil || total != 3 || len(list) != 1 || list[0].Kind != model.NotificationOrder {
		t.Fatalf("unexpected list %+v total=%d err=%v", list, total, err)
	}

	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(7)).WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(4))
	if count, err := repo.CountUnread(ctx, 7); err != nil || count != 4 {
		t.Fatalf("unexpected count %d err=%v", count, err)
	}

	mock.ExpectExec("UPDATE notifications SET is_read=\\$1").WithArgs(true, int64(5), int64(8)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.SetRead(ctx, 8, 5, true); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for foreign notification, got %v", err)
	}

	mock.ExpectExec("UPDATE notifications SET is_read=\\$1").WithArgs(false, int64(5), int64(7)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.SetRead(ctx, 7, 5, false); err != nil {
		t.Fatalf("set unread: %v", err)
	}

	mock.ExpectExec("UPDATE notifications SET is_read=TRUE").WithArgs(int64(7)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 6))
	if updated, err := repo.MarkAllRead(ctx, 7); err != nil || updated != 6 {
		t.Fatalf("unexpected mark all result %d err=%v", updated, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestNotificationListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &notificationRepository{storage: storage}

	if _, _, err := repo.ListByUser(context.Background(), 1, false, model.NewPage(1, 10)); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestOutboxRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &outboxRepository{storage: storage}
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO email_outbox").WithArgs("a@example.com", model.TemplateVerifyEmail, []byte(`{"otp":"123456"}`)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.Enqueue(ctx, model.EmailMessage{Recipient: "a@example.com", Template: model.TemplateVerifyEmail, Payload: map[string]string{"otp": "123456"}}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	columns := []string{"id", "recipient", "template", "payload", "status", "attempts", "last_error", "created_at"}
	mock.ExpectBegin()
	mock.ExpectQuery("FROM email_outbox").WithArgs(10).WillReturnRows(
		pgxmockv3.NewRows(columns).
			AddRow(int64(1), "a@example.com", model.TemplateVerifyEmail, []byte(`{"otp":"123456"}`), model.EmailPending, 0, "", time.Now()).
			AddRow(int64(2), "b@example.com", model.TemplateOrderStatus, []byte(`{}`), model.EmailPending, 2, "timeout", time.Now()))
	mock.ExpectExec("UPDATE email_outbox SET next_attempt_at").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE email_outbox SET next_attempt_at").WithArgs(int64(2)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	batch, err := repo.ClaimBatch(ctx, 10)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(batch) != 2 || batch[0].Payload["otp"] != "123456" || batch[1].Attempts != 2 {
		t.Fatalf("unexpected batch %+v", batch)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM email_outbox").WithArgs(10).WillReturnError(errors.New("query"))
	mock.ExpectRollback()
	if _, err := repo.ClaimBatch(ctx, 10); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectExec("UPDATE email_outbox SET status='sent'").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.MarkSent(ctx, 1); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	mock.ExpectExec("UPDATE email_outbox").WithArgs("smtp down", model.MaxEmailAttempts, int64(2)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.MarkFailed(ctx, 2, "smtp down"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/solarstore/internal/adapter/mailer"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

// OutboxFacade exposes the subset of application functionality required by the worker.
type OutboxFacade interface {
	PendingEmails(ctx context.Context, limit int) ([]model.EmailMessage, error)
	SendEmail(ctx context.Context, msg model.EmailMessage) error
	MarkEmailSent(ctx context.Context, id int64) error
	MarkEmailFailed(ctx context.Context, id int64, reason string) error
}

// NotificationDispatcher drains the email outbox through the mailer concurrently.
type NotificationDispatcher struct {
	facade       OutboxFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.EmailMessage
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex

	// pausedUntil is shared by all workers so a mailer 429 throttles the pool.
	pauseMu     sync.Mutex
	pausedUntil time.Time
}

// NewNotificationDispatcher constructs the dispatcher worker pool.
func NewNotificationDispatcher(facade OutboxFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &NotificationDispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.EmailMessage, batchSize*workers),
	}
}

// Start launches background processing.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

func (d *NotificationDispatcher) fetchAndDispatch(ctx context.Context) {
	if d.pauseRemaining() > 0 {
		return
	}
	messages, err := d.facade.PendingEmails(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("claim outbox batch failed", slog.String("error", err.Error()))
		return
	}
	for _, msg := range messages {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- msg:
		}
	}
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.jobs:
			if !ok {
				return
			}
			d.deliver(ctx, msg)
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, msg model.EmailMessage) {
	sleep(ctx, d.pauseRemaining())
	if ctx.Err() != nil {
		return
	}

	err := d.facade.SendEmail(ctx, msg)
	if err == nil {
		if err := d.facade.MarkEmailSent(ctx, msg.ID); err != nil {
			d.logger.Error("mark email sent failed", slog.Int64("email", msg.ID), slog.String("error", err.Error()))
		}
		return
	}

	var limited mailer.TooManyRequestsError
	if errors.As(err, &limited) {
		// The claim lease expires on its own; the message is picked up again later.
		d.logger.Warn("mailer rate limited", slog.Duration("retry_after", limited.RetryAfter))
		d.pause(limited.RetryAfter)
		return
	}
	if ctx.Err() != nil {
		return
	}

	d.logger.Error("send email failed",
		slog.Int64("email", msg.ID),
		slog.String("template", msg.Template),
		slog.Int("attempt", msg.Attempts+1),
		slog.String("error", err.Error()),
	)
	if err := d.facade.MarkEmailFailed(ctx, msg.ID, err.Error()); err != nil {
		d.logger.Error("mark email failed failed", slog.Int64("email", msg.ID), slog.String("error", err.Error()))
	}
}

// pause holds every worker back for at least wait.
func (d *NotificationDispatcher) pause(wait time.Duration) {
	if wait <= 0 {
		return
	}
	until := time.Now().Add(wait)
	d.pauseMu.Lock()
	if until.After(d.pausedUntil) {
		d.pausedUntil = until
	}
	d.pauseMu.Unlock()
}

func (d *NotificationDispatcher) pauseRemaining() time.Duration {
	d.pauseMu.Lock()
	defer d.pauseMu.Unlock()
	return time.Until(d.pausedUntil)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

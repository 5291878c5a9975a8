package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// FailedEmail records a MarkEmailFailed call.
type FailedEmail struct {
	ID     int64
	Reason string
}

// OutboxFacadeStub mimics dispatcher interactions with the store facade.
type OutboxFacadeStub struct {
	Batches   [][]model.EmailMessage
	PendingFn func(context.Context, int) ([]model.EmailMessage, error)
	SendFn    func(context.Context, model.EmailMessage) error
	Sent      []int64
	Delivered []model.EmailMessage
	Failed    []FailedEmail

	mu        sync.Mutex
	callCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *OutboxFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *OutboxFacadeStub) Unlock() { s.mu.Unlock() }

// PendingEmails returns batches from configured queue.
func (s *OutboxFacadeStub) PendingEmails(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// SendEmail delegates to SendFn and records successful deliveries.
func (s *OutboxFacadeStub) SendEmail(ctx context.Context, msg model.EmailMessage) error {
	if s.SendFn != nil {
		if err := s.SendFn(ctx, msg); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, msg)
	return nil
}

// MarkEmailSent records acknowledged messages.
func (s *OutboxFacadeStub) MarkEmailSent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, id)
	return nil
}

// MarkEmailFailed records failed deliveries.
func (s *OutboxFacadeStub) MarkEmailFailed(ctx context.Context, id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, FailedEmail{ID: id, Reason: reason})
	return nil
}

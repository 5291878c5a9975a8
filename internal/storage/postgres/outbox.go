package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

type outboxRepository struct {
	storage *Storage
}

func enqueueEmail(ctx context.Context, q querier, msg model.EmailMessage) error {
	payload := msg.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}
	const query = `INSERT INTO email_outbox (recipient, template, payload) VALUES ($1, $2, $3)`
	if _, err := q.Exec(ctx, query, msg.Recipient, msg.Template, encoded); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

func (r *outboxRepository) Enqueue(ctx context.Context, msg model.EmailMessage) error {
	return enqueueEmail(ctx, r.storage.pool, msg)
}

// ClaimBatch locks due pending messages, pushes their next attempt into the
// future so concurrent dispatchers skip them, and returns them.
func (r *outboxRepository) ClaimBatch(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	const selectQuery = `SELECT id, recipient, template, payload, status, attempts, last_error, created_at
                         FROM email_outbox
                         WHERE status = 'pending' AND next_attempt_at <= NOW()
                         ORDER BY id
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var messages []model.EmailMessage
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				msg     model.EmailMessage
				payload []byte
			)
			if err := rows.Scan(&msg.ID, &msg.Recipient, &msg.Template, &payload, &msg.Status, &msg.Attempts, &msg.LastError, &msg.CreatedAt); err != nil {
				return err
			}
			if len(payload) > 0 {
				if err := json.Unmarshal(payload, &msg.Payload); err != nil {
					return fmt.Errorf("decode email payload: %w", err)
				}
			}
			messages = append(messages, msg)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, msg := range messages {
			if _, err := tx.Exec(ctx, `UPDATE email_outbox SET next_attempt_at = NOW() + INTERVAL '1 minute' WHERE id=$1`, msg.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id int64) error {
	const query = `UPDATE email_outbox SET status='sent', attempts=attempts+1, last_error='', sent_at=NOW() WHERE id=$1`
	if _, err := r.storage.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}

// MarkFailed records a delivery error. The message is retried with a linear
// backoff until it reaches model.MaxEmailAttempts.
func (r *outboxRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	const query = `UPDATE email_outbox
                   SET attempts = attempts + 1,
                       last_error = $1,
                       status = CASE WHEN attempts + 1 >= $2 THEN 'failed' ELSE 'pending' END,
                       next_attempt_at = NOW() + (attempts + 1) * INTERVAL '30 seconds'
                   WHERE id=$3`
	if _, err := r.storage.pool.Exec(ctx, query, errMsg, model.MaxEmailAttempts, id); err != nil {
		return fmt.Errorf("mark email failed: %w", err)
	}
	return nil
}

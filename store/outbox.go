// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/danielhkuo/feedbackform/models"
)

// EnqueueOutbox stores pending notifications. Inside InTx they commit
// together with the change that caused them.
func (s *Store) EnqueueOutbox(ctx context.Context, events []models.OutboxEvent) error {
	for _, e := range events {
		var next any
		if e.NextAttemptAt != nil {
			next = utc(*e.NextAttemptAt)
		}
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO outbox_events (id, form_id, channel, target, payload, attempts, next_attempt_at, last_error, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, e.ID, e.FormID, e.Channel, e.Target, e.Payload, e.Attempts, next, e.LastError, utc(e.CreatedAt))
		if err != nil {
			return wrap("enqueue outbox", err)
		}
	}
	return nil
}

// DueOutbox returns undelivered events whose next attempt is at or before now.
func (s *Store) DueOutbox(ctx context.Context, now time.Time, limit int) ([]models.OutboxEvent, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, form_id, channel, target, payload, attempts, next_attempt_at, delivered_at, last_error, created_at
		FROM outbox_events
		WHERE delivered_at IS NULL AND next_attempt_at IS NOT NULL AND next_attempt_at <= $1
		ORDER BY next_attempt_at ASC, created_at ASC
		LIMIT $2
	`, utc(now), limit)
	if err != nil {
		return nil, wrap("query outbox", err)
	}
	defer rows.Close()

	events := []models.OutboxEvent{}
	for rows.Next() {
		e, err := scanOutbox(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query outbox", err)
	}
	return events, nil
}

// OutboxForForm lists a form's events, oldest first.
func (s *Store) OutboxForForm(ctx context.Context, formID string) ([]models.OutboxEvent, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, form_id, channel, target, payload, attempts, next_attempt_at, delivered_at, last_error, created_at
		FROM outbox_events
		WHERE form_id = $1
		ORDER BY created_at ASC, channel ASC
	`, formID)
	if err != nil {
		return nil, wrap("query outbox", err)
	}
	defer rows.Close()

	events := []models.OutboxEvent{}
	for rows.Next() {
		e, err := scanOutbox(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query outbox", err)
	}
	return events, nil
}

func scanOutbox(rows *sql.Rows) (models.OutboxEvent, error) {
	var e models.OutboxEvent
	err := rows.Scan(&e.ID, &e.FormID, &e.Channel, &e.Target, &e.Payload, &e.Attempts,
		&e.NextAttemptAt, &e.DeliveredAt, &e.LastError, &e.CreatedAt)
	if err != nil {
		return e, wrap("scan outbox", err)
	}
	return e, nil
}

// MarkDelivered records a successful delivery.
func (s *Store) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE outbox_events
		SET delivered_at = $1, next_attempt_at = NULL, attempts = attempts + 1, last_error = ''
		WHERE id = $2
	`, utc(at), id)
	if err != nil {
		return wrap("mark delivered", err)
	}
	return nil
}

// MarkAttemptFailed records a failed delivery. A nil next parks the event.
func (s *Store) MarkAttemptFailed(ctx context.Context, id string, attempts int, next *time.Time, lastErr string) error {
	var nextAt any
	if next != nil {
		nextAt = utc(*next)
	}
	_, err := s.q.ExecContext(ctx, `
		UPDATE outbox_events
		SET attempts = $1, next_attempt_at = $2, last_error = $3
		WHERE id = $4
	`, attempts, nextAt, lastErr, id)
	if err != nil {
		return wrap("mark attempt failed", err)
	}
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/danielhkuo/feedbackform/models"
)

// VariantIDs returns the set of variant ids belonging to a form.
func (s *Store) VariantIDs(ctx context.Context, formID string) (map[string]bool, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT id FROM email_variants WHERE form_id = $1", formID)
	if err != nil {
		return nil, wrap("list variant ids", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrap("scan variant id", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list variant ids", err)
	}
	return ids, nil
}

// InsertResponses stores one submission batch. Call inside InTx so the
// batch lands completely or not at all.
func (s *Store) InsertResponses(ctx context.Context, responses []models.FeedbackResponse) error {
	for _, r := range responses {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO feedback_responses (id, form_id, variant_id, feedback_text, submitted_at)
			VALUES ($1, $2, $3, $4, $5)
		`, r.ID, r.FormID, r.VariantID, r.FeedbackText, utc(r.SubmittedAt))
		if err != nil {
			return wrap("insert feedback", err)
		}
	}
	return nil
}

// ListResponses returns every response recorded for a form.
func (s *Store) ListResponses(ctx context.Context, formID string) ([]models.FeedbackResponse, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, form_id, variant_id, feedback_text, submitted_at
		FROM feedback_responses
		WHERE form_id = $1
		ORDER BY submitted_at ASC, id ASC
	`, formID)
	if err != nil {
		return nil, wrap("list feedback", err)
	}
	defer rows.Close()

	responses := []models.FeedbackResponse{}
	for rows.Next() {
		var r models.FeedbackResponse
		if err := rows.Scan(&r.ID, &r.FormID, &r.VariantID, &r.FeedbackText, &r.SubmittedAt); err != nil {
			return nil, wrap("scan feedback", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list feedback", err)
	}
	return responses, nil
}

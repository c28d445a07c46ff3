// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements stick to the subset shared by Postgres and SQLite.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Forms
	`CREATE TABLE IF NOT EXISTS forms (
    id TEXT PRIMARY KEY,
    client_name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed')),
    webhook_url TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_forms_created_at ON forms(created_at)`,

	// Email variants
	`CREATE TABLE IF NOT EXISTS email_variants (
    id TEXT PRIMARY KEY,
    form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
    email_type TEXT NOT NULL CHECK (email_type IN ('eerste_mail', 'opvolgmail_1', 'opvolgmail_2')),
    variant_number INTEGER NOT NULL CHECK (variant_number BETWEEN 1 AND 5),
    subject_line TEXT NOT NULL,
    email_body TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_email_variants_form_id ON email_variants(form_id, sort_order)`,

	// Feedback responses
	`CREATE TABLE IF NOT EXISTS feedback_responses (
    id TEXT PRIMARY KEY,
    form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
    variant_id TEXT NOT NULL REFERENCES email_variants(id) ON DELETE CASCADE,
    feedback_text TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_responses_form_id ON feedback_responses(form_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_responses_variant_id ON feedback_responses(variant_id)`,

	// Outbox (no FK on form_id: notifications outlive the form)
	`CREATE TABLE IF NOT EXISTS outbox_events (
    id TEXT PRIMARY KEY,
    form_id TEXT NOT NULL,
    channel TEXT NOT NULL,
    target TEXT NOT NULL,
    payload TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    next_attempt_at TIMESTAMP,
    delivered_at TIMESTAMP,
    last_error TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_next_attempt ON outbox_events(next_attempt_at)`,
}

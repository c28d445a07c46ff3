// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open picks the driver from the configured type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:feedback.db")

SQLite connections are capped at one open connection with foreign keys
enabled, so ON DELETE CASCADE behaves the same as on Postgres.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - forms: client name, unique slug, lifecycle status
  - email_variants: subject/body per stage, global sort_order
  - feedback_responses: recipient comments per variant
  - outbox_events: pending downstream notifications

# Relationships

	forms 1──* email_variants
	forms 1──* feedback_responses
	email_variants 1──* feedback_responses

All foreign keys use ON DELETE CASCADE. outbox_events keeps form_id
without a foreign key so queued notifications survive a delete.
*/
package db

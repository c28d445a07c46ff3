// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the SQL repository for forms, email variants, feedback
responses and outbox events.

All queries use $n placeholders, which both lib/pq and modernc.org/sqlite
accept. Timestamps are written in UTC.

# Transactions

Multi-row writes run inside InTx:

	err := s.InTx(ctx, func(tx *store.Store) error {
		if err := tx.InsertForm(ctx, form); err != nil {
			return err
		}
		return tx.InsertVariants(ctx, variants)
	})

# Errors

Missing rows return ErrNotFound. Driver failures are wrapped with
ErrPersistence so callers can map them with errors.Is while the cause
stays available for logs. CompleteForm returns ErrFormCompleted when the
form already left the active state.
*/
package store

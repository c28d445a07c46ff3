// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danielhkuo/feedbackform/models"
)

const formColumns = `id, client_name, slug, status, webhook_url, created_at, updated_at`

// SlugExists reports whether any form already uses slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var id string
	err := s.q.QueryRowContext(ctx, "SELECT id FROM forms WHERE slug = $1", slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap("check slug", err)
	}
	return true, nil
}

// InsertForm stores a new form row.
func (s *Store) InsertForm(ctx context.Context, f *models.Form) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO forms (id, client_name, slug, status, webhook_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, f.ID, f.ClientName, f.Slug, f.Status, nullString(f.WebhookURL), utc(f.CreatedAt), utc(f.UpdatedAt))
	if err != nil {
		return wrap("insert form", err)
	}
	return nil
}

// InsertVariants stores a batch of variants. Call inside InTx for atomicity.
func (s *Store) InsertVariants(ctx context.Context, variants []models.EmailVariant) error {
	for _, v := range variants {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO email_variants (id, form_id, email_type, variant_number, subject_line, email_body, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, v.ID, v.FormID, v.EmailType, v.VariantNumber, v.SubjectLine, v.EmailBody, v.SortOrder, utc(v.CreatedAt))
		if err != nil {
			return wrap("insert variant", err)
		}
	}
	return nil
}

// FindFormByID returns the form with the given id or ErrNotFound.
func (s *Store) FindFormByID(ctx context.Context, id string) (*models.Form, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+formColumns+" FROM forms WHERE id = $1", id)
	return scanForm(row)
}

// FindFormBySlug returns the form with the given slug or ErrNotFound.
func (s *Store) FindFormBySlug(ctx context.Context, slug string) (*models.Form, error) {
	row := s.q.QueryRowContext(ctx, "SELECT "+formColumns+" FROM forms WHERE slug = $1", slug)
	return scanForm(row)
}

// LockFormForSubmission takes the form's row lock and loads it. Call
// inside InTx. The no-op UPDATE works on both Postgres and SQLite, which
// lacks SELECT ... FOR UPDATE.
func (s *Store) LockFormForSubmission(ctx context.Context, id string) (*models.Form, error) {
	res, err := s.q.ExecContext(ctx, "UPDATE forms SET updated_at = updated_at WHERE id = $1", id)
	if err != nil {
		return nil, wrap("lock form", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, wrap("lock form", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.FindFormByID(ctx, id)
}

func scanForm(row *sql.Row) (*models.Form, error) {
	var f models.Form
	err := row.Scan(&f.ID, &f.ClientName, &f.Slug, &f.Status, &f.WebhookURL, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("query form", err)
	}
	return &f, nil
}

// ListForms returns summary rows, newest first.
func (s *Store) ListForms(ctx context.Context) ([]models.FormSummary, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, client_name, slug, status, created_at
		FROM forms
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, wrap("list forms", err)
	}
	defer rows.Close()

	forms := []models.FormSummary{}
	for rows.Next() {
		var f models.FormSummary
		if err := rows.Scan(&f.ID, &f.ClientName, &f.Slug, &f.Status, &f.CreatedAt); err != nil {
			return nil, wrap("scan form", err)
		}
		forms = append(forms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list forms", err)
	}
	return forms, nil
}

// ListVariants returns a form's variants ordered by sort_order.
func (s *Store) ListVariants(ctx context.Context, formID string) ([]models.EmailVariant, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, form_id, email_type, variant_number, subject_line, email_body, sort_order, created_at
		FROM email_variants
		WHERE form_id = $1
		ORDER BY sort_order ASC
	`, formID)
	if err != nil {
		return nil, wrap("list variants", err)
	}
	defer rows.Close()

	variants := []models.EmailVariant{}
	for rows.Next() {
		var v models.EmailVariant
		if err := rows.Scan(&v.ID, &v.FormID, &v.EmailType, &v.VariantNumber, &v.SubjectLine, &v.EmailBody, &v.SortOrder, &v.CreatedAt); err != nil {
			return nil, wrap("scan variant", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list variants", err)
	}
	return variants, nil
}

// DeleteForm removes a form and returns its slug. Variants and feedback
// go with it through ON DELETE CASCADE.
func (s *Store) DeleteForm(ctx context.Context, id string) (string, error) {
	var slug string
	err := s.q.QueryRowContext(ctx, "DELETE FROM forms WHERE id = $1 RETURNING slug", id).Scan(&slug)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrap("delete form", err)
	}
	return slug, nil
}

// CompleteForm moves an active form to completed. It returns
// ErrFormCompleted when the form is not active any more, so only one
// concurrent caller can win the transition.
func (s *Store) CompleteForm(ctx context.Context, id string, at time.Time) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE forms
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, models.StatusCompleted, utc(at), id, models.StatusActive)
	if err != nil {
		return wrap("complete form", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return wrap("complete form", err)
	}
	if n == 0 {
		return ErrFormCompleted
	}
	return nil
}

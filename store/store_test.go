// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/feedbackform/models"
	"github.com/danielhkuo/feedbackform/store"
	"github.com/danielhkuo/feedbackform/testutil"
)

func TestSlugExists(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	testutil.CreateTestForm(t, conn, "Acme", "acme-abc123", models.StatusActive)

	tests := []struct {
		slug string
		want bool
	}{
		{"acme-abc123", true},
		{"acme-zzzzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, err := s.SlugExists(ctx, tt.slug)
			if err != nil {
				t.Fatalf("SlugExists: %v", err)
			}
			if got != tt.want {
				t.Errorf("SlugExists(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestFindForm_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	if _, err := s.FindFormByID(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindFormByID: expected ErrNotFound, got %v", err)
	}
	if _, err := s.FindFormBySlug(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindFormBySlug: expected ErrNotFound, got %v", err)
	}
}

func TestInsertForm_WebhookURLRoundTrip(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	hook := "https://hooks.example.com/x"
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &models.Form{ID: "f1", ClientName: "Acme", Slug: "acme-aaaaaa", Status: models.StatusActive, WebhookURL: &hook, CreatedAt: now, UpdatedAt: now}
	if err := s.InsertForm(ctx, f); err != nil {
		t.Fatalf("InsertForm: %v", err)
	}

	got, err := s.FindFormBySlug(ctx, "acme-aaaaaa")
	if err != nil {
		t.Fatalf("FindFormBySlug: %v", err)
	}
	if got.WebhookURL == nil || *got.WebhookURL != hook {
		t.Errorf("expected webhook %q, got %v", hook, got.WebhookURL)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
	}

	f2 := &models.Form{ID: "f2", ClientName: "Beta", Slug: "beta-aaaaaa", Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	if err := s.InsertForm(ctx, f2); err != nil {
		t.Fatalf("InsertForm: %v", err)
	}
	got2, err := s.FindFormByID(ctx, "f2")
	if err != nil {
		t.Fatalf("FindFormByID: %v", err)
	}
	if got2.WebhookURL != nil {
		t.Errorf("expected nil webhook, got %q", *got2.WebhookURL)
	}
}

func TestInsertForm_DuplicateSlug(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	now := time.Now()
	f := &models.Form{ID: "f1", ClientName: "Acme", Slug: "dup-aaaaaa", Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	if err := s.InsertForm(ctx, f); err != nil {
		t.Fatalf("InsertForm: %v", err)
	}

	f.ID = "f2"
	err := s.InsertForm(ctx, f)
	if !errors.Is(err, store.ErrPersistence) {
		t.Errorf("expected ErrPersistence on duplicate slug, got %v", err)
	}
}

func TestInTx_RollbackOnError(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	boom := errors.New("boom")
	now := time.Now()
	err := s.InTx(ctx, func(tx *store.Store) error {
		f := &models.Form{ID: "f1", ClientName: "Acme", Slug: "acme-rollbk", Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
		if err := tx.InsertForm(ctx, f); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	exists, err := s.SlugExists(ctx, "acme-rollbk")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("form should not exist after rollback")
	}
}

func TestListVariants_SortOrder(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	form, _ := testutil.CreateTestForm(t, conn, "Acme", "acme-srt001", models.StatusActive,
		models.EmailTypeEersteMail, models.EmailTypeEersteMail, models.EmailTypeOpvolgmail1)

	variants, err := s.ListVariants(ctx, form.ID)
	if err != nil {
		t.Fatalf("ListVariants: %v", err)
	}
	if len(variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(variants))
	}
	for i, v := range variants {
		if v.SortOrder != i {
			t.Errorf("variant %d: expected sort_order %d, got %d", i, i, v.SortOrder)
		}
	}
	if variants[1].VariantNumber != 2 || variants[2].VariantNumber != 1 {
		t.Errorf("unexpected variant numbers: %d, %d", variants[1].VariantNumber, variants[2].VariantNumber)
	}
}

func TestListForms_NewestFirst(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Old", "Mid", "New"} {
		at := base.Add(time.Duration(i) * time.Hour)
		f := &models.Form{ID: name, ClientName: name, Slug: "slug-" + name, Status: models.StatusActive, CreatedAt: at, UpdatedAt: at}
		if err := s.InsertForm(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	forms, err := s.ListForms(ctx)
	if err != nil {
		t.Fatalf("ListForms: %v", err)
	}
	want := []string{"New", "Mid", "Old"}
	if len(forms) != len(want) {
		t.Fatalf("expected %d forms, got %d", len(want), len(forms))
	}
	for i, f := range forms {
		if f.ClientName != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], f.ClientName)
		}
	}
}

func TestDeleteForm_Cascades(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	form, variants := testutil.CreateTestForm(t, conn, "Acme", "acme-del001", models.StatusActive)
	err := s.InsertResponses(ctx, []models.FeedbackResponse{
		{ID: "r1", FormID: form.ID, VariantID: variants[0].ID, FeedbackText: "ok", SubmittedAt: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}

	slug, err := s.DeleteForm(ctx, form.ID)
	if err != nil {
		t.Fatalf("DeleteForm: %v", err)
	}
	if slug != "acme-del001" {
		t.Errorf("expected slug acme-del001, got %s", slug)
	}

	if n := testutil.CountRows(t, conn, "email_variants", form.ID); n != 0 {
		t.Errorf("expected variants removed, %d left", n)
	}
	if n := testutil.CountRows(t, conn, "feedback_responses", form.ID); n != 0 {
		t.Errorf("expected feedback removed, %d left", n)
	}

	if _, err := s.DeleteForm(ctx, form.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCompleteForm_OnlyOnce(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	form, _ := testutil.CreateTestForm(t, conn, "Acme", "acme-cmp001", models.StatusActive)

	if err := s.CompleteForm(ctx, form.ID, time.Now()); err != nil {
		t.Fatalf("first CompleteForm: %v", err)
	}
	if status := testutil.FormStatus(t, conn, form.ID); status != models.StatusCompleted {
		t.Errorf("expected completed, got %s", status)
	}
	if err := s.CompleteForm(ctx, form.ID, time.Now()); !errors.Is(err, store.ErrFormCompleted) {
		t.Errorf("second CompleteForm: expected ErrFormCompleted, got %v", err)
	}
}

func TestLockFormForSubmission(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	form, _ := testutil.CreateTestForm(t, conn, "Acme", "acme-lck001", models.StatusActive)

	err := s.InTx(ctx, func(tx *store.Store) error {
		got, err := tx.LockFormForSubmission(ctx, form.ID)
		if err != nil {
			return err
		}
		if got.Slug != form.Slug {
			t.Errorf("expected slug %s, got %s", form.Slug, got.Slug)
		}
		_, err = tx.LockFormForSubmission(ctx, "missing")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
}

func TestOutbox_DueAndMark(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	events := []models.OutboxEvent{
		{ID: "due", FormID: "f", Channel: models.ChannelWebhook, Target: "http://x", Payload: "{}", NextAttemptAt: &now, CreatedAt: now},
		{ID: "future", FormID: "f", Channel: models.ChannelWebhook, Target: "http://x", Payload: "{}", NextAttemptAt: &later, CreatedAt: now},
		{ID: "parked", FormID: "f", Channel: models.ChannelWebhook, Target: "http://x", Payload: "{}", CreatedAt: now},
	}
	if err := s.EnqueueOutbox(ctx, events); err != nil {
		t.Fatalf("EnqueueOutbox: %v", err)
	}

	due, err := s.DueOutbox(ctx, now, 50)
	if err != nil {
		t.Fatalf("DueOutbox: %v", err)
	}
	if len(due) != 1 || due[0].ID != "due" {
		t.Fatalf("expected only 'due', got %+v", due)
	}

	if err := s.MarkDelivered(ctx, "due", now); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	next := now.Add(2 * time.Hour)
	if err := s.MarkAttemptFailed(ctx, "future", 1, &next, "502"); err != nil {
		t.Fatalf("MarkAttemptFailed: %v", err)
	}

	all, err := s.OutboxForForm(ctx, "f")
	if err != nil {
		t.Fatal(err)
	}
	byID := make(map[string]models.OutboxEvent)
	for _, e := range all {
		byID[e.ID] = e
	}

	if d := byID["due"]; d.DeliveredAt == nil || d.NextAttemptAt != nil || d.Attempts != 1 {
		t.Errorf("unexpected delivered event: %+v", d)
	}
	if f := byID["future"]; f.Attempts != 1 || f.LastError != "502" || f.NextAttemptAt == nil || !f.NextAttemptAt.Equal(next) {
		t.Errorf("unexpected retried event: %+v", f)
	}

	due, err = s.DueOutbox(ctx, now.Add(90*time.Minute), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Errorf("expected nothing due yet, got %d", len(due))
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/feedbackform/cache"
	"github.com/danielhkuo/feedbackform/feedback"
	"github.com/danielhkuo/feedbackform/forms"
	"github.com/danielhkuo/feedbackform/models"
	"github.com/danielhkuo/feedbackform/store"
	"github.com/danielhkuo/feedbackform/testutil"
)

// setupHandlers builds the handlers over a fresh database behind a bare
// chi router so path parameters resolve.
func setupHandlers(t *testing.T) (*sql.DB, http.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	st := store.New(db)
	formHandler := NewFormHandler(forms.NewService(st, cache.Noop{}, cfg.SiteURL))
	feedbackHandler := NewFeedbackHandler(feedback.NewService(st, cache.Noop{}, nil, feedback.Channels{WebhookURL: cfg.WebhookURL}))
	healthHandler := NewHealthHandler(st)

	r := chi.NewRouter()
	r.Get("/", healthHandler.Index)
	r.Get("/health", healthHandler.Health)
	r.Post("/forms", formHandler.CreateForm)
	r.Get("/forms", formHandler.ListForms)
	r.Get("/forms/{id}", formHandler.GetForm)
	r.Delete("/forms/{id}", formHandler.DeleteForm)
	r.Get("/feedback/{slug}", formHandler.GetPublicForm)
	r.Post("/feedback/{slug}", feedbackHandler.SubmitFeedback)
	return db, r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createForm(t *testing.T, h http.Handler, body interface{}) models.CreateFormResponse {
	t.Helper()
	w := serve(h, testutil.MakeRequest("POST", "/forms", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateFormResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func TestCreateForm(t *testing.T) {
	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedField  string
	}{
		{
			name: "valid form",
			body: map[string]interface{}{
				"klantnaam":            "Acme Corp",
				"eerste_mail_variants": []map[string]string{{"subject": "Hallo", "body": "Welkom"}},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing client name",
			body: map[string]interface{}{
				"eerste_mail_variants": []map[string]string{{"subject": "Hallo", "body": "Welkom"}},
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedField:  "klantnaam",
		},
		{
			name: "no variants",
			body: map[string]interface{}{
				"klantnaam":            "Acme Corp",
				"eerste_mail_variants": []map[string]string{},
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedField:  "eerste_mail_variants",
		},
		{
			name: "follow-up 2 without follow-up 1",
			body: map[string]interface{}{
				"klantnaam":             "Acme Corp",
				"eerste_mail_variants":  []map[string]string{{"subject": "Hallo", "body": "Welkom"}},
				"opvolgmail_2_enabled":  true,
				"opvolgmail_2_variants": []map[string]string{{"subject": "Nog eens", "body": "Hoi"}},
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedField:  "opvolgmail_2_enabled",
		},
		{
			name:           "invalid JSON",
			body:           `{"klantnaam":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, h := setupHandlers(t)

			w := serve(h, testutil.MakeRequest("POST", "/forms", tc.body, nil))
			testutil.AssertStatus(t, w, tc.expectedStatus)

			switch tc.expectedStatus {
			case http.StatusCreated:
				var resp models.CreateFormResponse
				testutil.AssertJSON(t, w, &resp)
				if !resp.Success || resp.ID == "" {
					t.Errorf("Unexpected response %+v", resp)
				}
				if !regexp.MustCompile(`^acme-corp-[a-z0-9]{6}$`).MatchString(resp.Slug) {
					t.Errorf("Unexpected slug %q", resp.Slug)
				}
				if resp.PublicURL != "http://localhost:3000/feedback/"+resp.Slug {
					t.Errorf("Unexpected public url %q", resp.PublicURL)
				}
			case http.StatusUnprocessableEntity:
				var resp models.FieldErrorsResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Success {
					t.Error("Expected success=false")
				}
				if len(resp.FieldErrors[tc.expectedField]) == 0 {
					t.Errorf("Expected error on %s, got %v", tc.expectedField, resp.FieldErrors)
				}
			}
		})
	}
}

func TestGetForm(t *testing.T) {
	_, h := setupHandlers(t)
	created := createForm(t, h, map[string]interface{}{
		"klantnaam":             "Acme Corp",
		"eerste_mail_variants":  []map[string]string{{"subject": "A", "body": "a"}, {"subject": "B", "body": "b"}},
		"opvolgmail_1_enabled":  true,
		"opvolgmail_1_variants": []map[string]string{{"subject": "C", "body": "c"}},
	})

	t.Run("dashboard view", func(t *testing.T) {
		w := serve(h, httptest.NewRequest("GET", "/forms/"+created.ID, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var detail models.FormDetail
		testutil.AssertJSON(t, w, &detail)
		if detail.ClientName != "Acme Corp" || detail.Status != models.StatusActive {
			t.Errorf("Unexpected form %+v", detail.Form)
		}
		if len(detail.Groups) != 2 || detail.Groups[0].Label != "Eerste mail" || detail.Groups[1].Label != "Opvolgmail 1" {
			t.Errorf("Unexpected groups %+v", detail.Groups)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		w := serve(h, httptest.NewRequest("GET", "/forms/does-not-exist", nil))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("public view", func(t *testing.T) {
		w := serve(h, httptest.NewRequest("GET", "/feedback/"+created.Slug, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("unknown slug", func(t *testing.T) {
		w := serve(h, httptest.NewRequest("GET", "/feedback/nope-zzzzzz", nil))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestListForms(t *testing.T) {
	_, h := setupHandlers(t)
	for _, name := range []string{"Eén", "Twee"} {
		createForm(t, h, map[string]interface{}{
			"klantnaam":            name,
			"eerste_mail_variants": []map[string]string{{"subject": "s", "body": "b"}},
		})
	}

	w := serve(h, httptest.NewRequest("GET", "/forms", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ListFormsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Forms) != 2 {
		t.Fatalf("Expected 2 forms, got %d", len(resp.Forms))
	}
	for _, f := range resp.Forms {
		if !strings.HasSuffix(f.PublicURL, "/feedback/"+f.Slug) {
			t.Errorf("Unexpected public url %q", f.PublicURL)
		}
	}
}

func TestDeleteForm(t *testing.T) {
	db, h := setupHandlers(t)
	created := createForm(t, h, map[string]interface{}{
		"klantnaam":            "Acme Corp",
		"eerste_mail_variants": []map[string]string{{"subject": "s", "body": "b"}},
	})

	w := serve(h, httptest.NewRequest("DELETE", "/forms/"+created.ID, nil))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	if n := testutil.CountRows(t, db, "email_variants", created.ID); n != 0 {
		t.Errorf("Expected variants removed, %d left", n)
	}

	w = serve(h, httptest.NewRequest("GET", "/feedback/"+created.Slug, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(h, httptest.NewRequest("DELETE", "/forms/"+created.ID, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitFeedback(t *testing.T) {
	testCases := []struct {
		name           string
		status         string
		entries        func(variantID string) []models.FeedbackEntry
		slug           func(slug string) string
		expectedStatus int
		expectedError  string
	}{
		{
			name:   "success",
			status: models.StatusActive,
			entries: func(v string) []models.FeedbackEntry {
				return []models.FeedbackEntry{{VariantID: v, FeedbackText: "Prima"}}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "only whitespace",
			status: models.StatusActive,
			entries: func(v string) []models.FeedbackEntry {
				return []models.FeedbackEntry{{VariantID: v, FeedbackText: "   "}}
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Geen feedback om te versturen",
		},
		{
			name:   "invalid rating",
			status: models.StatusActive,
			entries: func(v string) []models.FeedbackEntry {
				return []models.FeedbackEntry{{VariantID: v, FeedbackText: "x", Rating: "top"}}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown variant",
			status: models.StatusActive,
			entries: func(string) []models.FeedbackEntry {
				return []models.FeedbackEntry{{VariantID: "other", FeedbackText: "x"}}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "already completed",
			status: models.StatusCompleted,
			entries: func(v string) []models.FeedbackEntry {
				return []models.FeedbackEntry{{VariantID: v, FeedbackText: "x"}}
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "Dit formulier is al ingevuld",
		},
		{
			name:   "slug mismatch",
			status: models.StatusActive,
			entries: func(v string) []models.FeedbackEntry {
				return []models.FeedbackEntry{{VariantID: v, FeedbackText: "x"}}
			},
			slug:           func(string) string { return "other-slug01" },
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, h := setupHandlers(t)
			form, variants := testutil.CreateTestForm(t, db, "Acme Corp", "acme-corp-abc123", tc.status)

			slug := form.Slug
			if tc.slug != nil {
				slug = tc.slug(slug)
			}
			body := models.SubmitFeedbackRequest{FormID: form.ID, Entries: tc.entries(variants[0].ID)}

			w := serve(h, testutil.MakeRequest("POST", "/feedback/"+slug, body, nil))
			testutil.AssertStatus(t, w, tc.expectedStatus)

			var resp models.SubmitFeedbackResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Success != (tc.expectedStatus == http.StatusOK) {
				t.Errorf("Unexpected success flag in %+v", resp)
			}
			if tc.expectedError != "" && resp.Error != tc.expectedError {
				t.Errorf("Expected error %q, got %q", tc.expectedError, resp.Error)
			}
		})
	}
}

func TestEndToEnd_AcmeCorp(t *testing.T) {
	db, h := setupHandlers(t)

	created := createForm(t, h, map[string]interface{}{
		"klantnaam":            "Acme Corp",
		"eerste_mail_variants": []map[string]string{{"subject": "Hallo", "body": "Welkom"}},
	})
	if !regexp.MustCompile(`^acme-corp-[a-z0-9]{6}$`).MatchString(created.Slug) {
		t.Fatalf("Unexpected slug %q", created.Slug)
	}

	// Public view before submission
	w := serve(h, httptest.NewRequest("GET", "/feedback/"+created.Slug, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var before models.FormDetail
	testutil.AssertJSON(t, w, &before)
	variants := before.Variants()
	if len(variants) != 1 || variants[0].SubjectLine != "Hallo" || variants[0].EmailBody != "Welkom" {
		t.Fatalf("Unexpected variants %+v", variants)
	}

	// Submit
	body := models.SubmitFeedbackRequest{
		FormID:  created.ID,
		Entries: []models.FeedbackEntry{{VariantID: variants[0].ID, FeedbackText: "Goed"}},
	}
	w = serve(h, testutil.MakeRequest("POST", "/feedback/"+created.Slug, body, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if status := testutil.FormStatus(t, db, created.ID); status != models.StatusCompleted {
		t.Errorf("Expected completed, got %s", status)
	}

	// Read-only public view shows the feedback
	w = serve(h, httptest.NewRequest("GET", "/feedback/"+created.Slug, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var after models.FormDetail
	testutil.AssertJSON(t, w, &after)
	if after.Status != models.StatusCompleted {
		t.Errorf("Expected completed public view, got %s", after.Status)
	}
	got := after.Variants()[0].FeedbackResponses
	if len(got) != 1 || got[0].FeedbackText != "Goed" {
		t.Errorf("Expected 'Goed' under the variant, got %+v", got)
	}

	// Webhook notification queued
	if n := testutil.CountRows(t, db, "outbox_events", created.ID); n != 1 {
		t.Errorf("Expected 1 outbox event, got %d", n)
	}

	// Second submission is rejected
	w = serve(h, testutil.MakeRequest("POST", "/feedback/"+created.Slug, body, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/feedbackform/cliparse"
	"github.com/danielhkuo/feedbackform/db"
	"github.com/danielhkuo/feedbackform/models"
)

// TestDBURL opens a private in-memory SQLite database per connection;
// db.Open keeps a single connection so it lives for the whole test.
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                3318,
		DatabaseURL:         TestDBURL,
		DatabaseType:        db.TypeSQLite,
		SiteURL:             "http://localhost:3000",
		WebhookURL:          "http://webhook.test/hook",
		KafkaTopic:          "feedback.completed",
		AllowedOrigins:      []string{"http://localhost:3000"},
		LogLevel:            "info",
		DispatchInterval:    time.Minute,
		DispatchMaxAttempts: 3,
		SubmitRatePerMinute: 1000,
	}
}

// FixedClock returns a clock that advances by one second per call so
// rows created in a test get distinct, ordered timestamps.
func FixedClock(start time.Time) func() time.Time {
	current := start.UTC()
	return func() time.Time {
		t := current
		current = current.Add(time.Second)
		return t
	}
}

// CreateTestForm inserts a form with one variant per given email type and
// returns the form and its variants in sort order.
func CreateTestForm(t *testing.T, conn *sql.DB, clientName, slug, status string, emailTypes ...string) (models.Form, []models.EmailVariant) {
	t.Helper()

	if len(emailTypes) == 0 {
		emailTypes = []string{models.EmailTypeEersteMail}
	}

	now := time.Now().UTC()
	form := models.Form{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Slug:       slug,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := conn.Exec(`
		INSERT INTO forms (id, client_name, slug, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, form.ID, form.ClientName, form.Slug, form.Status, now, now)
	if err != nil {
		t.Fatalf("Failed to create test form: %v", err)
	}

	counts := make(map[string]int)
	var variants []models.EmailVariant
	for i, et := range emailTypes {
		counts[et]++
		v := models.EmailVariant{
			ID:            uuid.NewString(),
			FormID:        form.ID,
			EmailType:     et,
			VariantNumber: counts[et],
			SubjectLine:   "Onderwerp " + et,
			EmailBody:     "Inhoud " + et,
			SortOrder:     i,
			CreatedAt:     now,
		}
		_, err := conn.Exec(`
			INSERT INTO email_variants (id, form_id, email_type, variant_number, subject_line, email_body, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, v.ID, v.FormID, v.EmailType, v.VariantNumber, v.SubjectLine, v.EmailBody, v.SortOrder, now)
		if err != nil {
			t.Fatalf("Failed to create test variant: %v", err)
		}
		variants = append(variants, v)
	}

	return form, variants
}

// CountRows returns the number of rows in table matching form_id.
func CountRows(t *testing.T, conn *sql.DB, table, formID string) int {
	t.Helper()

	var n int
	err := conn.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table+" WHERE form_id = $1", formID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// FormStatus reads a form's status straight from the database.
func FormStatus(t *testing.T, conn *sql.DB, formID string) string {
	t.Helper()

	var status string
	if err := conn.QueryRow("SELECT status FROM forms WHERE id = $1", formID).Scan(&status); err != nil {
		t.Fatalf("Failed to query form status: %v", err)
	}
	return status
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if s, ok := body.(string); ok {
			jsonBody = []byte(s)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

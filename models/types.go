// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Form status constants
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Email stage constants, in display order
const (
	EmailTypeEersteMail  = "eerste_mail"
	EmailTypeOpvolgmail1 = "opvolgmail_1"
	EmailTypeOpvolgmail2 = "opvolgmail_2"
)

// EmailTypeOrder is the fixed order stages are stored and shown in.
var EmailTypeOrder = []string{EmailTypeEersteMail, EmailTypeOpvolgmail1, EmailTypeOpvolgmail2}

// Outbox channels
const (
	ChannelWebhook = "webhook"
	ChannelKafka   = "kafka"
)

// MaxVariantsPerStage bounds each enabled stage.
const MaxVariantsPerStage = 5

// Request types

type VariantInput struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

type CreateFormRequest struct {
	ClientName          string         `json:"klantnaam" validate:"required"`
	WebhookURL          string         `json:"webhook_url,omitempty" validate:"omitempty,url"`
	EersteMailVariants  []VariantInput `json:"eerste_mail_variants" validate:"min=1,max=5,dive"`
	Opvolgmail1Enabled  bool           `json:"opvolgmail_1_enabled"`
	Opvolgmail1Variants []VariantInput `json:"opvolgmail_1_variants,omitempty" validate:"-"`
	Opvolgmail2Enabled  bool           `json:"opvolgmail_2_enabled"`
	Opvolgmail2Variants []VariantInput `json:"opvolgmail_2_variants,omitempty" validate:"-"`
}

// FeedbackEntry is one recipient comment. Rating is optional and
// must be one of the feedback package's rating keys.
type FeedbackEntry struct {
	VariantID    string `json:"variant_id"`
	FeedbackText string `json:"feedback_text"`
	Rating       string `json:"rating,omitempty"`
}

type SubmitFeedbackRequest struct {
	FormID  string          `json:"form_id"`
	Entries []FeedbackEntry `json:"entries"`
}

// Response types

type CreateFormResponse struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	PublicURL string `json:"public_url"`
}

type FieldErrorsResponse struct {
	Success     bool                `json:"success"`
	FieldErrors map[string][]string `json:"field_errors"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SubmitFeedbackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ListFormsResponse struct {
	Forms []FormSummary `json:"forms"`
}

// Domain types

type Form struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Slug       string    `json:"slug"`
	Status     string    `json:"status"`
	WebhookURL *string   `json:"webhook_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Completed reports whether the form is in its read-only state.
func (f Form) Completed() bool {
	return f.Status == StatusCompleted
}

type EmailVariant struct {
	ID                string             `json:"id"`
	FormID            string             `json:"form_id"`
	EmailType         string             `json:"email_type"`
	VariantNumber     int                `json:"variant_number"`
	SubjectLine       string             `json:"subject_line"`
	EmailBody         string             `json:"email_body"`
	SortOrder         int                `json:"sort_order"`
	CreatedAt         time.Time          `json:"created_at"`
	FeedbackResponses []FeedbackResponse `json:"feedback_responses,omitempty"`
}

// FeedbackResponse is one stored comment. FeedbackText is the stored
// "[Label] text" form; Rating and Comment are its parsed parts and are
// filled by the read views, not persisted.
type FeedbackResponse struct {
	ID           string    `json:"id"`
	FormID       string    `json:"form_id"`
	VariantID    string    `json:"variant_id"`
	FeedbackText string    `json:"feedback_text"`
	Rating       string    `json:"rating,omitempty"`
	Comment      string    `json:"comment"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type FormSummary struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Slug       string    `json:"slug"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	PublicURL  string    `json:"public_url"`
}

// VariantGroup holds the variants of one stage.
type VariantGroup struct {
	EmailType string         `json:"email_type"`
	Label     string         `json:"label"`
	Variants  []EmailVariant `json:"variants"`
}

// FormDetail is the read model for both the dashboard and the public page.
// Notifications is only filled for the dashboard.
type FormDetail struct {
	Form
	PublicURL     string         `json:"public_url"`
	Groups        []VariantGroup `json:"groups"`
	Notifications []OutboxEvent  `json:"notifications,omitempty"`
}

// Variants flattens the groups back into sort order.
func (d FormDetail) Variants() []EmailVariant {
	var out []EmailVariant
	for _, g := range d.Groups {
		out = append(out, g.Variants...)
	}
	return out
}

type OutboxEvent struct {
	ID            string     `json:"id"`
	FormID        string     `json:"form_id"`
	Channel       string     `json:"channel"`
	Target        string     `json:"target"`
	Payload       string     `json:"payload"`
	Attempts      int        `json:"attempts"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CompletionPayload is sent downstream once a form is completed.
type CompletionPayload struct {
	ClientName string `json:"client_name"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

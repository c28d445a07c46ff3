// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateFormRequest: klantnaam, webhook_url, stage toggles and variants
  - VariantInput: subject, body
  - SubmitFeedbackRequest: form_id, entries
  - FeedbackEntry: variant_id, feedback_text, rating

# Response Types

  - CreateFormResponse: success, id, slug, public_url
  - FieldErrorsResponse: success, field_errors (field → messages)
  - MessageResponse: success, message
  - SubmitFeedbackResponse: success, error
  - ListFormsResponse: forms
  - ErrorResponse: error, message

# Domain Types

  - Form: client name, slug and lifecycle state
  - EmailVariant: one subject/body candidate within a stage
  - FeedbackResponse: one recipient comment on a variant
  - FormSummary: list row for the dashboard
  - FormDetail, VariantGroup: grouped read model
  - OutboxEvent: pending downstream notification

# Constants

Status values:

	StatusActive    = "active"
	StatusCompleted = "completed"

Stages, in display order:

	EmailTypeEersteMail  = "eerste_mail"
	EmailTypeOpvolgmail1 = "opvolgmail_1"
	EmailTypeOpvolgmail2 = "opvolgmail_2"

Outbox channels:

	ChannelWebhook = "webhook"
	ChannelKafka   = "kafka"
*/
package models

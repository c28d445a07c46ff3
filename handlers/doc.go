// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the feedback form API.

  - FormHandler: form management for the dashboard and the public read view
  - FeedbackHandler: recipient feedback submission
  - HealthHandler: liveness and database health

Handlers translate between JSON and the forms and feedback services; all
business rules live in those packages.

# Routes

	POST   /forms            → CreateForm (201, 422 with field errors)
	GET    /forms            → ListForms
	GET    /forms/{id}       → GetForm (dashboard view with feedback)
	DELETE /forms/{id}       → DeleteForm (204)
	GET    /feedback/{slug}  → GetPublicForm
	POST   /feedback/{slug}  → SubmitFeedback (409 once completed)

User-facing messages are in Dutch.
*/
package handlers

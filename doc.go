// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the feedback form API server.

Operators create a form per client holding email variants for up to three
stages (eerste mail, opvolgmail 1, opvolgmail 2). Each form gets a public
slug; the client opens the link, leaves feedback per variant and submits
once. Submission completes the form and queues a completion notification
for the webhook (and Kafka, when configured).

# Starting the Server

	DATABASE_URL=feedback.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -webhook-url https://hooks.example.com/x

A .env file in the working directory is loaded first. See package
cliparse for every setting.

# Architecture

  - handlers: HTTP request handlers
  - router: chi routes and middleware stack
  - middleware: logging, metrics, CORS, rate limiting, JSON helpers
  - forms: form creation, validation and read views
  - feedback: submission and rating encoding
  - notify: outbox dispatcher with webhook and Kafka senders
  - store: SQL persistence
  - cache: optional Redis cache for public views
  - slug: public slug generation
  - db: connection and schema
  - models: request, response and domain types
  - logger, metrics: zap and Prometheus setup
  - cliparse: configuration
*/
package main

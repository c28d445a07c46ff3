// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires HTTP routes to handlers.

# Routes

	GET    /                  service info
	GET    /health            database ping
	GET    /metrics           Prometheus metrics
	POST   /forms             create a form
	GET    /forms             list forms, newest first
	GET    /forms/{id}        dashboard view with feedback
	DELETE /forms/{id}        delete a form
	GET    /feedback/{slug}   public view
	POST   /feedback/{slug}   submit feedback (rate limited per IP)

Every route runs behind request ids, panic recovery, metrics, request
logging and CORS.
*/
package router

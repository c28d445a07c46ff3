// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides chi middleware and HTTP helpers.

# Middleware

	r.Use(chimw.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.WithLogging)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

WithLogging writes one zap entry per request including the chi request
ID. Metrics labels Prometheus series by route pattern. CORS wraps
go-chi/cors.

# Rate Limiting

RateLimiter keeps a token bucket per client IP (GetClientIP):

	limiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute)
	r.With(limiter.Limit).Post("/feedback/{slug}", h.SubmitFeedback)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")

	var req models.CreateFormRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		...
	}

ParseJSONBody caps bodies at MaxBodyBytes.

# Client IP Extraction

GetClientIP reads RemoteAddr only. Forwarded headers are honoured when the
router installs chimw.RealIP (cliparse TrustProxy).
*/
package middleware

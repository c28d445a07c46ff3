// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/feedbackform/cache"
	"github.com/danielhkuo/feedbackform/cliparse"
	"github.com/danielhkuo/feedbackform/feedback"
	"github.com/danielhkuo/feedbackform/forms"
	"github.com/danielhkuo/feedbackform/handlers"
	"github.com/danielhkuo/feedbackform/middleware"
	"github.com/danielhkuo/feedbackform/store"
)

// Services are the optional collaborators wired by main. Zero values
// fall back to no cache and no dispatcher wake-ups.
type Services struct {
	Cache cache.FormCache
	Waker feedback.Waker
}

func NewRouter(db *sql.DB, cfg cliparse.Config, svc Services) *chi.Mux {
	if svc.Cache == nil {
		svc.Cache = cache.Noop{}
	}

	st := store.New(db)
	formService := forms.NewService(st, svc.Cache, cfg.SiteURL)

	channels := feedback.Channels{WebhookURL: cfg.WebhookURL}
	if len(cfg.KafkaBrokers) > 0 {
		channels.KafkaTopic = cfg.KafkaTopic
	}
	feedbackService := feedback.NewService(st, svc.Cache, svc.Waker, channels)

	// Initialize handlers
	formHandler := handlers.NewFormHandler(formService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	healthHandler := handlers.NewHealthHandler(st)
	limiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute)

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.WithLogging)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health, metrics and root
	r.Get("/", healthHandler.Index)
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Form management (dashboard)
	r.Post("/forms", formHandler.CreateForm)
	r.Get("/forms", formHandler.ListForms)
	r.Get("/forms/{id}", formHandler.GetForm)
	r.Delete("/forms/{id}", formHandler.DeleteForm)

	// Public feedback page
	r.Get("/feedback/{slug}", formHandler.GetPublicForm)
	r.With(limiter.Limit).Post("/feedback/{slug}", feedbackHandler.SubmitFeedback)

	return r
}

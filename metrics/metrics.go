// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedbackform_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedbackform_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	FormsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedbackform_forms_created_total",
			Help: "Number of forms created",
		},
	)

	// FeedbackSubmissions counts submissions by outcome
	// (ok, empty, invalid, not_found, completed, error).
	FeedbackSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedbackform_feedback_submissions_total",
			Help: "Feedback submissions by result",
		},
		[]string{"result"},
	)

	OutboxDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedbackform_outbox_deliveries_total",
			Help: "Outbox delivery attempts by channel and result",
		},
		[]string{"channel", "result"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCount, RequestDuration, FormsCreated, FeedbackSubmissions, OutboxDeliveries)
	})
}

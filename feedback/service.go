// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/feedbackform/cache"
	"github.com/danielhkuo/feedbackform/logger"
	"github.com/danielhkuo/feedbackform/metrics"
	"github.com/danielhkuo/feedbackform/models"
	"github.com/danielhkuo/feedbackform/store"
)

var (
	ErrNoFeedbackProvided = errors.New("no feedback provided")
	ErrUnknownVariant     = errors.New("variant does not belong to form")
	ErrFormCompleted      = store.ErrFormCompleted
	ErrNotFound           = store.ErrNotFound
)

// UnknownClient is sent when a form has no client name.
const UnknownClient = "Unknown Client"

// Waker is notified after a submission commits so pending notifications
// go out without waiting for the next tick.
type Waker interface {
	Wake()
}

// Channels selects which notifications a completed form produces.
type Channels struct {
	// WebhookURL is used for forms without their own webhook_url.
	WebhookURL string
	// KafkaTopic enables a Kafka event when set.
	KafkaTopic string
}

// Service records feedback and completes forms.
type Service struct {
	store    *store.Store
	cache    cache.FormCache
	waker    Waker
	channels Channels

	Now   func() time.Time
	NewID func() string
}

func NewService(s *store.Store, c cache.FormCache, w Waker, ch Channels) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		store:    s,
		cache:    c,
		waker:    w,
		channels: ch,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Submit stores a recipient's feedback and moves the form to completed.
// Everything happens in one transaction: the status flip, the responses
// and the outbox rows either all land or none do. Only one submission per
// form can succeed; later ones get ErrFormCompleted.
func (s *Service) Submit(ctx context.Context, formID, formSlug string, entries []models.FeedbackEntry) error {
	err := s.submit(ctx, formID, formSlug, entries)
	metrics.FeedbackSubmissions.WithLabelValues(resultLabel(err)).Inc()
	return err
}

func (s *Service) submit(ctx context.Context, formID, formSlug string, entries []models.FeedbackEntry) error {
	if len(entries) == 0 {
		return ErrNoFeedbackProvided
	}

	type pending struct {
		variantID string
		text      string
	}
	var kept []pending
	for _, e := range entries {
		text, err := Encode(e.Rating, e.FeedbackText)
		if err != nil {
			return fmt.Errorf("%w: %q", err, e.Rating)
		}
		if text == "" {
			continue
		}
		kept = append(kept, pending{variantID: e.VariantID, text: text})
	}
	if len(kept) == 0 {
		return ErrNoFeedbackProvided
	}

	now := s.Now().UTC()
	var form *models.Form
	var responses []models.FeedbackResponse

	err := s.store.InTx(ctx, func(tx *store.Store) error {
		var err error
		form, err = tx.LockFormForSubmission(ctx, formID)
		if err != nil {
			return err
		}
		if form.Slug != formSlug {
			return ErrNotFound
		}
		if form.Completed() {
			return ErrFormCompleted
		}

		known, err := tx.VariantIDs(ctx, form.ID)
		if err != nil {
			return err
		}
		for _, p := range kept {
			if !known[p.variantID] {
				return fmt.Errorf("%w: %s", ErrUnknownVariant, p.variantID)
			}
		}

		if err := tx.CompleteForm(ctx, form.ID, now); err != nil {
			return err
		}

		responses = make([]models.FeedbackResponse, 0, len(kept))
		for _, p := range kept {
			responses = append(responses, models.FeedbackResponse{
				ID:           s.NewID(),
				FormID:       form.ID,
				VariantID:    p.variantID,
				FeedbackText: p.text,
				SubmittedAt:  now,
			})
		}
		if err := tx.InsertResponses(ctx, responses); err != nil {
			return err
		}

		events, err := s.completionEvents(form, now)
		if err != nil {
			return err
		}
		return tx.EnqueueOutbox(ctx, events)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, form.Slug)
	if s.waker != nil {
		s.waker.Wake()
	}

	logger.Log.Info("feedback submitted",
		zap.String("form_id", form.ID),
		zap.String("slug", form.Slug),
		zap.Int("responses", len(responses)),
	)
	return nil
}

// completionEvents builds one outbox row per enabled channel. A form's own
// webhook_url takes precedence over the configured one.
func (s *Service) completionEvents(form *models.Form, now time.Time) ([]models.OutboxEvent, error) {
	clientName := strings.TrimSpace(form.ClientName)
	if clientName == "" {
		clientName = UnknownClient
	}
	payload, err := json.Marshal(models.CompletionPayload{ClientName: clientName})
	if err != nil {
		return nil, fmt.Errorf("encode completion payload: %w", err)
	}

	webhook := s.channels.WebhookURL
	if form.WebhookURL != nil && *form.WebhookURL != "" {
		webhook = *form.WebhookURL
	}

	var events []models.OutboxEvent
	add := func(channel, target string) {
		due := now
		events = append(events, models.OutboxEvent{
			ID:            s.NewID(),
			FormID:        form.ID,
			Channel:       channel,
			Target:        target,
			Payload:       string(payload),
			NextAttemptAt: &due,
			CreatedAt:     now,
		})
	}
	if webhook != "" {
		add(models.ChannelWebhook, webhook)
	}
	if s.channels.KafkaTopic != "" {
		add(models.ChannelKafka, s.channels.KafkaTopic)
	}
	return events, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoFeedbackProvided):
		return "empty"
	case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrUnknownVariant):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrFormCompleted):
		return "completed"
	default:
		return "error"
	}
}

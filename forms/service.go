// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/feedbackform/cache"
	"github.com/danielhkuo/feedbackform/feedback"
	"github.com/danielhkuo/feedbackform/logger"
	"github.com/danielhkuo/feedbackform/metrics"
	"github.com/danielhkuo/feedbackform/models"
	"github.com/danielhkuo/feedbackform/slug"
	"github.com/danielhkuo/feedbackform/store"
)

// ErrNotFound is returned for unknown form ids and slugs.
var ErrNotFound = store.ErrNotFound

// Service creates, reads and deletes forms.
type Service struct {
	store   *store.Store
	cache   cache.FormCache
	slugs   *slug.Generator
	siteURL string

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string
}

func NewService(s *store.Store, c cache.FormCache, siteURL string) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		store:   s,
		cache:   c,
		slugs:   slug.NewGenerator(s.SlugExists),
		siteURL: strings.TrimRight(siteURL, "/"),
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// Slugs exposes the generator so tests can pin the suffix.
func (s *Service) Slugs() *slug.Generator {
	return s.slugs
}

// PublicURL is the link recipients open to leave feedback.
func (s *Service) PublicURL(formSlug string) string {
	return s.siteURL + "/feedback/" + formSlug
}

// Create validates req, picks a slug and stores the form with all of its
// variants in one transaction.
func (s *Service) Create(ctx context.Context, req *models.CreateFormRequest) (*models.Form, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	formSlug, err := s.slugs.Generate(ctx, req.ClientName)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	form := &models.Form{
		ID:         s.NewID(),
		ClientName: req.ClientName,
		Slug:       formSlug,
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.WebhookURL != "" {
		hook := req.WebhookURL
		form.WebhookURL = &hook
	}

	variants := buildVariants(req)
	for i := range variants {
		variants[i].ID = s.NewID()
		variants[i].FormID = form.ID
		variants[i].CreatedAt = now
	}

	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.InsertForm(ctx, form); err != nil {
			return err
		}
		return tx.InsertVariants(ctx, variants)
	})
	if err != nil {
		return nil, err
	}

	metrics.FormsCreated.Inc()
	logger.Log.Info("form created",
		zap.String("form_id", form.ID),
		zap.String("slug", form.Slug),
		zap.Int("variants", len(variants)),
	)

	return form, nil
}

// Delete removes a form and everything attached to it.
func (s *Service) Delete(ctx context.Context, id string) error {
	formSlug, err := s.store.DeleteForm(ctx, id)
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, formSlug)
	logger.Log.Info("form deleted", zap.String("form_id", id), zap.String("slug", formSlug))
	return nil
}

// List returns every form, newest first.
func (s *Service) List(ctx context.Context) ([]models.FormSummary, error) {
	forms, err := s.store.ListForms(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		forms[i].PublicURL = s.PublicURL(forms[i].Slug)
	}
	return forms, nil
}

// Dashboard returns a form with its variants grouped by stage and the
// feedback recorded for each variant.
func (s *Service) Dashboard(ctx context.Context, id string) (*models.FormDetail, error) {
	form, err := s.store.FindFormByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail, err := s.detail(ctx, form, true)
	if err != nil {
		return nil, err
	}

	detail.Notifications, err = s.store.OutboxForForm(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Public returns the recipient view for a slug. Feedback is only
// included once the form is completed.
//
// Only completed views are cached: completion is terminal, so a cached
// entry can only go stale through Delete, which is re-checked after Set.
// Active views are always read from the store.
func (s *Service) Public(ctx context.Context, formSlug string) (*models.FormDetail, error) {
	if cached, ok := s.cache.Get(ctx, formSlug); ok {
		return cached, nil
	}

	form, err := s.store.FindFormBySlug(ctx, formSlug)
	if err != nil {
		return nil, err
	}

	detail, err := s.detail(ctx, form, form.Completed())
	if err != nil {
		return nil, err
	}

	if form.Completed() {
		s.cache.Set(ctx, formSlug, detail)
		if _, err := s.store.FindFormBySlug(ctx, formSlug); errors.Is(err, ErrNotFound) {
			s.cache.Invalidate(ctx, formSlug)
		}
	}
	return detail, nil
}

func (s *Service) detail(ctx context.Context, form *models.Form, withFeedback bool) (*models.FormDetail, error) {
	variants, err := s.store.ListVariants(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	if withFeedback {
		responses, err := s.store.ListResponses(ctx, form.ID)
		if err != nil {
			return nil, err
		}
		byVariant := make(map[string][]models.FeedbackResponse)
		for _, r := range responses {
			r.Rating, r.Comment = feedback.ParseRating(r.FeedbackText)
			byVariant[r.VariantID] = append(byVariant[r.VariantID], r)
		}
		for i := range variants {
			variants[i].FeedbackResponses = byVariant[variants[i].ID]
		}
	}

	return &models.FormDetail{
		Form:      *form,
		PublicURL: s.PublicURL(form.Slug),
		Groups:    GroupVariants(variants),
	}, nil
}

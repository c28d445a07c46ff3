// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielhkuo/feedbackform/feedback"
	"github.com/danielhkuo/feedbackform/logger"
	"github.com/danielhkuo/feedbackform/middleware"
	"github.com/danielhkuo/feedbackform/models"
)

type FeedbackHandler struct {
	feedback *feedback.Service
}

func NewFeedbackHandler(svc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{feedback: svc}
}

// SubmitFeedback handles POST /feedback/{slug}
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req models.SubmitFeedbackRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		submitError(w, http.StatusBadRequest, "Ongeldige invoer")
		return
	}

	err := h.feedback.Submit(r.Context(), req.FormID, slug, req.Entries)
	switch {
	case err == nil:
		middleware.JSONResponse(w, http.StatusOK, models.SubmitFeedbackResponse{Success: true})
	case errors.Is(err, feedback.ErrNoFeedbackProvided):
		submitError(w, http.StatusBadRequest, "Geen feedback om te versturen")
	case errors.Is(err, feedback.ErrInvalidRating):
		submitError(w, http.StatusBadRequest, "Ongeldige beoordeling")
	case errors.Is(err, feedback.ErrUnknownVariant):
		submitError(w, http.StatusBadRequest, "Onbekende variant voor dit formulier")
	case errors.Is(err, feedback.ErrNotFound):
		submitError(w, http.StatusNotFound, "Formulier niet gevonden")
	case errors.Is(err, feedback.ErrFormCompleted):
		submitError(w, http.StatusConflict, "Dit formulier is al ingevuld")
	default:
		logger.Log.Error("failed to submit feedback",
			zap.String("form_id", req.FormID),
			zap.String("slug", slug),
			zap.Error(err),
		)
		submitError(w, http.StatusInternalServerError, "Er ging iets mis bij het opslaan van je feedback")
	}
}

func submitError(w http.ResponseWriter, status int, msg string) {
	middleware.JSONResponse(w, status, models.SubmitFeedbackResponse{Error: msg})
}

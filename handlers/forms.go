// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielhkuo/feedbackform/forms"
	"github.com/danielhkuo/feedbackform/logger"
	"github.com/danielhkuo/feedbackform/middleware"
	"github.com/danielhkuo/feedbackform/models"
)

type FormHandler struct {
	forms *forms.Service
}

func NewFormHandler(svc *forms.Service) *FormHandler {
	return &FormHandler{forms: svc}
}

// CreateForm handles POST /forms
func (h *FormHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFormRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.MessageResponse{Message: "Ongeldige invoer"})
		return
	}

	form, err := h.forms.Create(r.Context(), &req)
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.JSONResponse(w, http.StatusUnprocessableEntity, models.FieldErrorsResponse{FieldErrors: verr.Fields})
		return
	case err != nil:
		logger.Log.Error("failed to create form", zap.Error(err))
		middleware.JSONResponse(w, http.StatusInternalServerError, models.MessageResponse{Message: "Er ging iets mis bij het aanmaken"})
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateFormResponse{
		Success:   true,
		ID:        form.ID,
		Slug:      form.Slug,
		PublicURL: h.forms.PublicURL(form.Slug),
	})
}

// DeleteForm handles DELETE /forms/{id}
func (h *FormHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.forms.Delete(r.Context(), id)
	if errors.Is(err, forms.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusNotFound, models.MessageResponse{Message: "Formulier niet gevonden"})
		return
	}
	if err != nil {
		logger.Log.Error("failed to delete form", zap.String("form_id", id), zap.Error(err))
		middleware.JSONResponse(w, http.StatusInternalServerError, models.MessageResponse{Message: "Er ging iets mis bij het verwijderen"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForms handles GET /forms
func (h *FormHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	list, err := h.forms.List(r.Context())
	if err != nil {
		logger.Log.Error("failed to list forms", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListFormsResponse{Forms: list})
}

// GetForm handles GET /forms/{id}
func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.forms.Dashboard(r.Context(), id)
	if errors.Is(err, forms.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		logger.Log.Error("failed to load form", zap.String("form_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// GetPublicForm handles GET /feedback/{slug}
func (h *FormHandler) GetPublicForm(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.forms.Public(r.Context(), slug)
	if errors.Is(err, forms.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		logger.Log.Error("failed to load public form", zap.String("slug", slug), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/hermod/internal/apperr"
	"github.com/starford/hermod/internal/models"
	"github.com/starford/hermod/internal/reminder"
)

// Handler holds API route handlers.
type Handler struct {
	svc *reminder.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *reminder.Service) *Handler {
	return &Handler{svc: svc}
}

// respondErr maps domain errors to HTTP status codes.
func respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// requireActor rejects requests that carry no employee identity.
func requireActor(w http.ResponseWriter, r *http.Request) (reminder.Actor, bool) {
	actor := actorFrom(r.Context())
	if actor.ID == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody("missing employee identity"))
		return actor, false
	}
	return actor, true
}

// CreateReminder handles POST /api/reminders.
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	rem, err := h.svc.Create(r.Context(), actor, reminder.CreateInput{
		Title:           req.Title,
		Body:            req.Body,
		DueAt:           req.DueAt,
		Timezone:        req.Timezone,
		RepeatInterval:  models.RepeatInterval(req.RepeatInterval),
		ContactName:     req.ContactName,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		ContactLocation: req.ContactLocation,
	})
	if err != nil {
		respondErr(w, "create reminder", err)
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

// ListReminders handles GET /api/reminders. Admins may pass ?owner= to
// inspect another employee's reminders.
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	owner := r.URL.Query().Get("owner")

	items, err := h.svc.ListByOwner(r.Context(), actor, owner)
	if err != nil {
		respondErr(w, "list reminders", err)
		return
	}
	if items == nil {
		items = []*models.Reminder{}
	}
	writeJSON(w, http.StatusOK, ReminderListResponse{Reminders: items, Total: len(items)})
}

// GetReminder handles GET /api/reminders/{id}.
func (h *Handler) GetReminder(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	rem, err := h.svc.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, "get reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// EditReminder handles PATCH /api/reminders/{id}.
func (h *Handler) EditReminder(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req EditReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	rem, err := h.svc.Edit(r.Context(), actor, chi.URLParam(r, "id"), reminder.EditInput{
		Title: req.Title,
		Body:  req.Body,
		DueAt: req.DueAt,
	})
	if err != nil {
		respondErr(w, "edit reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// DeleteReminder handles DELETE /api/reminders/{id}.
func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		respondErr(w, "delete reminder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteReminder handles POST /api/reminders/{id}/complete.
func (h *Handler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	rem, err := h.svc.Complete(r.Context(), actor, chi.URLParam(r, "id"), req.Note)
	if err != nil {
		respondErr(w, "complete reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// SnoozeReminder handles POST /api/reminders/{id}/snooze.
func (h *Handler) SnoozeReminder(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	req := SnoozeRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
	}
	minutes := reminder.DefaultSnoozeMinutes
	if req.Minutes != nil {
		minutes = *req.Minutes
	}

	rem, err := h.svc.Snooze(r.Context(), actor, chi.URLParam(r, "id"), minutes)
	if err != nil {
		respondErr(w, "snooze reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// DismissReminder handles POST /api/reminders/{id}/dismiss.
func (h *Handler) DismissReminder(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	rem, err := h.svc.Dismiss(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, "dismiss reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

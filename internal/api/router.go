package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/hermod/internal/reminder"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *reminder.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Reminder CRUD.
	r.Post("/reminders", h.CreateReminder)
	r.Get("/reminders", h.ListReminders)
	r.Get("/reminders/{id}", h.GetReminder)
	r.Patch("/reminders/{id}", h.EditReminder)
	r.Delete("/reminders/{id}", h.DeleteReminder)

	// Lifecycle actions.
	r.Post("/reminders/{id}/complete", h.CompleteReminder)
	r.Post("/reminders/{id}/snooze", h.SnoozeReminder)
	r.Post("/reminders/{id}/dismiss", h.DismissReminder)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

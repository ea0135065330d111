// Package reminder implements the reminder lifecycle engine: owner
// operations (create, complete, snooze, dismiss, edit, delete) and the
// scheduler-driven due-check tick.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/hermod/internal/apperr"
	"github.com/starford/hermod/internal/clock"
	"github.com/starford/hermod/internal/dispatch"
	"github.com/starford/hermod/internal/models"
	"github.com/starford/hermod/internal/store"
)

// DefaultSnoozeMinutes is applied when a snooze request carries no
// explicit duration.
const DefaultSnoozeMinutes = 15

// Actor is the authenticated identity performing an operation, as
// supplied by the upstream auth gate. Admin actors may operate on
// reminders they do not own.
type Actor struct {
	ID    string
	Admin bool
}

// Events receives reminder change notifications for realtime fan-out.
type Events interface {
	PublishReminderEvent(kind, id, ownerID string)
}

// CreateInput carries the fields for a new reminder.
type CreateInput struct {
	Title           string
	Body            string
	DueAt           time.Time
	Timezone        string
	RepeatInterval  models.RepeatInterval // empty means non-repeating
	ContactName     string
	ContactPhone    string
	ContactEmail    string
	ContactLocation string
}

// EditInput carries optional field updates; nil pointers leave the
// field untouched.
type EditInput struct {
	Title *string
	Body  *string
	DueAt *time.Time
}

// Service coordinates the store, dispatcher, and broadcast channel.
type Service struct {
	store      store.ReminderStore
	dispatcher *dispatch.Dispatcher
	clk        clock.Clock
	events     Events
	logger     *slog.Logger
}

// NewService creates a reminder service. dispatcher and events may be
// nil when the caller only needs owner operations (e.g. the MCP server).
func NewService(st store.ReminderStore, dispatcher *dispatch.Dispatcher, clk clock.Clock, events Events, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      st,
		dispatcher: dispatcher,
		clk:        clk,
		events:     events,
		logger:     logger,
	}
}

// Create stores a new pending reminder owned by actor.
func (s *Service) Create(_ context.Context, actor Actor, in CreateInput) (*models.Reminder, error) {
	if actor.ID == "" {
		return nil, fmt.Errorf("owner is required: %w", apperr.ErrValidation)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", apperr.ErrValidation)
	}
	if in.DueAt.IsZero() {
		return nil, fmt.Errorf("due time is required: %w", apperr.ErrValidation)
	}
	repeating := in.RepeatInterval != ""
	if repeating && !in.RepeatInterval.Valid() {
		return nil, fmt.Errorf("unknown repeat interval %q: %w", in.RepeatInterval, apperr.ErrValidation)
	}

	now := s.clk.Now()
	r := &models.Reminder{
		ID:              uuid.NewString(),
		OwnerID:         actor.ID,
		Title:           in.Title,
		Body:            in.Body,
		DueAt:           in.DueAt,
		Timezone:        in.Timezone,
		IsRepeating:     repeating,
		RepeatInterval:  in.RepeatInterval,
		Active:          true,
		Status:          models.StatusPending,
		ContactName:     in.ContactName,
		ContactPhone:    in.ContactPhone,
		ContactEmail:    in.ContactEmail,
		ContactLocation: in.ContactLocation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if repeating {
		due := in.DueAt
		r.NextTrigger = &due
	}
	if err := s.store.Save(r); err != nil {
		return nil, err
	}
	s.publish("created", r)
	return r, nil
}

// Get returns a reminder visible to actor.
func (s *Service) Get(_ context.Context, actor Actor, id string) (*models.Reminder, error) {
	return s.getOwned(actor, id)
}

// ListByOwner returns the reminders owned by ownerID. Non-admin actors
// may only list their own.
func (s *Service) ListByOwner(_ context.Context, actor Actor, ownerID string) ([]*models.Reminder, error) {
	if ownerID == "" {
		ownerID = actor.ID
	}
	if ownerID != actor.ID && !actor.Admin {
		return nil, fmt.Errorf("cannot list reminders of %s: %w", ownerID, apperr.ErrForbidden)
	}
	return s.store.ListByOwner(ownerID)
}

// Complete records a completion note on the reminder. The note must be
// non-blank; its word count grades the response quality. A repeating,
// active reminder returns to pending for its next cycle after the next
// trigger is recomputed.
func (s *Service) Complete(_ context.Context, actor Actor, id, note string) (*models.Reminder, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("completion note must not be empty: %w", apperr.ErrValidation)
	}
	r, err := s.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == models.StatusCompleted || r.Status == models.StatusDismissed {
		return nil, fmt.Errorf("cannot complete a %s reminder: %w", r.Status, apperr.ErrValidation)
	}

	now := s.clk.Now()
	upd := r.Clone()
	color, wc := Classify(note)
	upd.CompletionNote = note
	upd.CompletedAt = &now
	upd.ResponseColor = color
	upd.WordCount = wc
	upd.Status = models.StatusCompleted
	upd.SnoozedUntil = nil
	if upd.IsRepeating && upd.Active {
		recomputeNextTrigger(upd, now)
		upd.Status = models.StatusPending
	}
	upd.UpdatedAt = now

	if err := s.store.Save(upd); err != nil {
		return nil, err
	}
	s.publish("updated", upd)
	return upd, nil
}

// Snooze pushes the reminder out by the given number of minutes.
func (s *Service) Snooze(_ context.Context, actor Actor, id string, minutes int) (*models.Reminder, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("snooze minutes must be positive: %w", apperr.ErrValidation)
	}
	r, err := s.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == models.StatusCompleted || r.Status == models.StatusDismissed {
		return nil, fmt.Errorf("cannot snooze a %s reminder: %w", r.Status, apperr.ErrValidation)
	}

	now := s.clk.Now()
	upd := r.Clone()
	until := now.Add(time.Duration(minutes) * time.Minute)
	upd.Status = models.StatusSnoozed
	upd.SnoozedUntil = &until
	upd.SnoozeCount++
	upd.UpdatedAt = now

	if err := s.store.Save(upd); err != nil {
		return nil, err
	}
	s.publish("updated", upd)
	return upd, nil
}

// Dismiss stops a reminder from firing. A non-repeating reminder moves
// to the terminal dismissed state; a repeating one is suppressed via
// the active flag so its history survives.
func (s *Service) Dismiss(_ context.Context, actor Actor, id string) (*models.Reminder, error) {
	r, err := s.getOwned(actor, id)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	upd := r.Clone()
	if upd.IsRepeating {
		upd.Active = false
		upd.NextTrigger = nil
	} else {
		upd.Status = models.StatusDismissed
		upd.SnoozedUntil = nil
	}
	upd.UpdatedAt = now

	if err := s.store.Save(upd); err != nil {
		return nil, err
	}
	s.publish("updated", upd)
	return upd, nil
}

// Edit updates title, body, or due time. An edit-history entry is
// appended only when something actually changed; a due-time change on a
// repeating, active reminder recomputes the next trigger from the new
// due time.
func (s *Service) Edit(_ context.Context, actor Actor, id string, in EditInput) (*models.Reminder, error) {
	r, err := s.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == models.StatusCompleted || r.Status == models.StatusDismissed {
		return nil, fmt.Errorf("cannot edit a %s reminder: %w", r.Status, apperr.ErrValidation)
	}

	now := s.clk.Now()
	upd := r.Clone()
	oldSnapshot := editSnapshot(upd)

	changed := false
	dueChanged := false
	if in.Title != nil && *in.Title != upd.Title {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("title must not be empty: %w", apperr.ErrValidation)
		}
		upd.Title = *in.Title
		changed = true
	}
	if in.Body != nil && *in.Body != upd.Body {
		upd.Body = *in.Body
		changed = true
	}
	if in.DueAt != nil && !in.DueAt.Equal(upd.DueAt) {
		upd.DueAt = *in.DueAt
		changed = true
		dueChanged = true
	}
	if !changed {
		return r, nil
	}

	upd.EditHistory = append(upd.EditHistory, models.EditEntry{
		OldContent: oldSnapshot,
		NewContent: editSnapshot(upd),
		EditedAt:   now,
		EditedBy:   actor.ID,
	})
	if dueChanged && upd.IsRepeating && upd.Active {
		upd.NextTrigger = nil // rebase on the new due time
		recomputeNextTrigger(upd, now)
	}
	upd.UpdatedAt = now

	if err := s.store.Save(upd); err != nil {
		return nil, err
	}
	s.publish("updated", upd)
	return upd, nil
}

// Delete hard-deletes a reminder.
func (s *Service) Delete(_ context.Context, actor Actor, id string) error {
	r, err := s.getOwned(actor, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(r.ID); err != nil {
		return err
	}
	s.publish("deleted", r)
	return nil
}

// Tick processes every reminder due at now: the dispatcher decides
// delivery vs. cooldown dedup, then trigger bookkeeping runs for each
// dispatched reminder. Failures are isolated per item; one reminder
// never blocks the rest of the batch.
func (s *Service) Tick(ctx context.Context, now time.Time) ([]dispatch.Report, error) {
	due, err := s.store.FindDue(now)
	if err != nil {
		return nil, err
	}

	reports := make([]dispatch.Report, 0, len(due))
	for _, r := range due {
		rep, dispatched := s.dispatcher.Dispatch(ctx, r, now)
		if dispatched {
			applyTrigger(r, now)
			if err := s.store.Save(r); err != nil {
				s.logger.Error("tick: save after dispatch failed",
					slog.String("reminder_id", r.ID),
					slog.String("error", err.Error()))
				rep.Error = err.Error()
			}
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (s *Service) getOwned(actor Actor, id string) (*models.Reminder, error) {
	r, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("reminder %s: %w", id, apperr.ErrNotFound)
	}
	if r.OwnerID != actor.ID && !actor.Admin {
		return nil, fmt.Errorf("reminder %s belongs to another owner: %w", id, apperr.ErrForbidden)
	}
	return r, nil
}

func (s *Service) publish(kind string, r *models.Reminder) {
	if s.events != nil {
		s.events.PublishReminderEvent(kind, r.ID, r.OwnerID)
	}
}

// editSnapshot captures the editable fields as a stable JSON blob for
// the edit-history log.
func editSnapshot(r *models.Reminder) string {
	b, _ := json.Marshal(map[string]string{
		"title":  r.Title,
		"body":   r.Body,
		"due_at": r.DueAt.UTC().Format(time.RFC3339),
	})
	return string(b)
}

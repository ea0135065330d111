// Package models defines the domain types for Hermod.
package models

import "time"

// Status is the lifecycle state of a reminder.
type Status string

// Reminder lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSnoozed   Status = "snoozed"
	StatusDismissed Status = "dismissed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSnoozed, StatusDismissed:
		return true
	}
	return false
}

// RepeatInterval is how often a repeating reminder recurs.
type RepeatInterval string

// Supported repeat intervals.
const (
	RepeatDaily   RepeatInterval = "daily"
	RepeatWeekly  RepeatInterval = "weekly"
	RepeatMonthly RepeatInterval = "monthly"
)

// Valid reports whether r is a known interval.
func (r RepeatInterval) Valid() bool {
	switch r {
	case RepeatDaily, RepeatWeekly, RepeatMonthly:
		return true
	}
	return false
}

// Next returns t advanced by one interval unit. Monthly uses calendar
// months, so Jan 31 + monthly normalises per time.AddDate rules.
func (r RepeatInterval) Next(t time.Time) time.Time {
	switch r {
	case RepeatDaily:
		return t.AddDate(0, 0, 1)
	case RepeatWeekly:
		return t.AddDate(0, 0, 7)
	case RepeatMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t
	}
}

// ResponseColor grades the quality of a completion note by word count.
type ResponseColor string

// Response quality grades.
const (
	ColorRed    ResponseColor = "red"
	ColorYellow ResponseColor = "yellow"
	ColorGreen  ResponseColor = "green"
)

// EditEntry is one append-only edit-history record, written whenever
// title, body, or due time actually change.
type EditEntry struct {
	OldContent string    `json:"old_content"`
	NewContent string    `json:"new_content"`
	EditedAt   time.Time `json:"edited_at"`
	EditedBy   string    `json:"edited_by"`
}

// Reminder is a follow-up item owned by a single employee.
type Reminder struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"owner_id"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	DueAt          time.Time      `json:"due_at"`
	Timezone       string         `json:"timezone,omitempty"`
	IsRepeating    bool           `json:"is_repeating"`
	RepeatInterval RepeatInterval `json:"repeat_interval,omitempty"`
	Active         bool           `json:"active"`
	Status         Status         `json:"status"`
	SnoozedUntil   *time.Time     `json:"snoozed_until,omitempty"`
	NextTrigger    *time.Time     `json:"next_trigger,omitempty"`
	LastTriggered  *time.Time     `json:"last_triggered_at,omitempty"`
	TriggerCount   int            `json:"trigger_count"`
	CompletionNote string         `json:"completion_note,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	ResponseColor  ResponseColor  `json:"response_color,omitempty"`
	WordCount      int            `json:"word_count,omitempty"`
	SnoozeCount    int            `json:"snooze_count"`
	EditHistory    []EditEntry    `json:"edit_history,omitempty"`

	// Optional contact metadata from the linked inquiry, carried
	// verbatim into notification payloads.
	ContactName     string `json:"contact_name,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	ContactLocation string `json:"contact_location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDue reports whether the reminder is eligible for delivery at now.
// Completed and dismissed reminders never fire; an inactive reminder is
// suppressed permanently regardless of status.
func (r *Reminder) IsDue(now time.Time) bool {
	if !r.Active || r.Status == StatusCompleted || r.Status == StatusDismissed {
		return false
	}
	if r.Status == StatusPending && !r.DueAt.After(now) {
		return true
	}
	if r.Status == StatusSnoozed && r.SnoozedUntil != nil && !r.SnoozedUntil.After(now) {
		return true
	}
	if r.IsRepeating && r.NextTrigger != nil && !r.NextTrigger.After(now) {
		return true
	}
	return false
}

// Clone returns a deep copy so mutations can be validated before any
// state is persisted.
func (r *Reminder) Clone() *Reminder {
	cp := *r
	cp.SnoozedUntil = cloneTime(r.SnoozedUntil)
	cp.NextTrigger = cloneTime(r.NextTrigger)
	cp.LastTriggered = cloneTime(r.LastTriggered)
	cp.CompletedAt = cloneTime(r.CompletedAt)
	if r.EditHistory != nil {
		cp.EditHistory = make([]EditEntry, len(r.EditHistory))
		copy(cp.EditHistory, r.EditHistory)
	}
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

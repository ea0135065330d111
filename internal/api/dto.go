package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/hermod/internal/models"
)

// CreateReminderRequest is the request body for creating a reminder.
type CreateReminderRequest struct {
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	DueAt           time.Time `json:"due_at"`
	Timezone        string    `json:"timezone"`
	RepeatInterval  string    `json:"repeat_interval"`
	ContactName     string    `json:"contact_name"`
	ContactPhone    string    `json:"contact_phone"`
	ContactEmail    string    `json:"contact_email"`
	ContactLocation string    `json:"contact_location"`
}

// Validate validates the create request.
func (r CreateReminderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.DueAt, validation.Required),
		validation.Field(&r.RepeatInterval, validation.In(
			string(models.RepeatDaily), string(models.RepeatWeekly), string(models.RepeatMonthly))),
	)
}

// EditReminderRequest is the request body for editing a reminder.
// Absent fields are left untouched.
type EditReminderRequest struct {
	Title *string    `json:"title"`
	Body  *string    `json:"body"`
	DueAt *time.Time `json:"due_at"`
}

// CompleteRequest carries the completion note.
type CompleteRequest struct {
	Note string `json:"note"`
}

// SnoozeRequest carries the snooze duration. A nil Minutes means the
// default; an explicit non-positive value is rejected downstream.
type SnoozeRequest struct {
	Minutes *int `json:"minutes"`
}

// ReminderResponse is the reminder representation returned by the API
// (aliased from the domain layer).
type ReminderResponse = models.Reminder

// ReminderListResponse wraps an owner's reminder listing.
type ReminderListResponse struct {
	Reminders []*models.Reminder `json:"reminders"`
	Total     int                `json:"total"`
}

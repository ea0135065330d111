package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/hermod/internal/models"
)

const reminderColumns = `id, owner_id, title, body, due_at, timezone,
	is_repeating, repeat_interval, active, status,
	snoozed_until, next_trigger, last_triggered_at, trigger_count,
	completion_note, completed_at, response_color, word_count,
	snooze_count, edit_history,
	contact_name, contact_phone, contact_email, contact_location,
	created_at, updated_at`

// Save inserts or replaces a reminder. Last write wins; the engine does
// not hold document locks across the read-modify-write cycle.
//
// All timestamps are normalized to UTC before binding: the driver stores
// time.Time as DATETIME text with its offset, and SQLite compares that
// text lexicographically, so mixed offsets would corrupt the due query.
func (db *DB) Save(r *models.Reminder) error {
	historyJSON, err := json.Marshal(r.EditHistory)
	if err != nil {
		return fmt.Errorf("store: marshal edit history: %w", err)
	}
	if r.EditHistory == nil {
		historyJSON = []byte("[]")
	}

	_, err = db.conn.Exec(`
		INSERT INTO reminders (`+reminderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id          = excluded.owner_id,
			title             = excluded.title,
			body              = excluded.body,
			due_at            = excluded.due_at,
			timezone          = excluded.timezone,
			is_repeating      = excluded.is_repeating,
			repeat_interval   = excluded.repeat_interval,
			active            = excluded.active,
			status            = excluded.status,
			snoozed_until     = excluded.snoozed_until,
			next_trigger      = excluded.next_trigger,
			last_triggered_at = excluded.last_triggered_at,
			trigger_count     = excluded.trigger_count,
			completion_note   = excluded.completion_note,
			completed_at      = excluded.completed_at,
			response_color    = excluded.response_color,
			word_count        = excluded.word_count,
			snooze_count      = excluded.snooze_count,
			edit_history      = excluded.edit_history,
			contact_name      = excluded.contact_name,
			contact_phone     = excluded.contact_phone,
			contact_email     = excluded.contact_email,
			contact_location  = excluded.contact_location,
			updated_at        = excluded.updated_at
	`,
		r.ID, r.OwnerID, r.Title, r.Body, r.DueAt.UTC(), r.Timezone,
		r.IsRepeating, string(r.RepeatInterval), r.Active, string(r.Status),
		nullTime(r.SnoozedUntil), nullTime(r.NextTrigger), nullTime(r.LastTriggered), r.TriggerCount,
		r.CompletionNote, nullTime(r.CompletedAt), string(r.ResponseColor), r.WordCount,
		r.SnoozeCount, string(historyJSON),
		r.ContactName, r.ContactPhone, r.ContactEmail, r.ContactLocation,
		r.CreatedAt.UTC(), r.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: save reminder: %w", err)
	}
	return nil
}

// FindByID returns the reminder with the given id, or (nil, nil) when
// no row exists.
func (db *DB) FindByID(id string) (*models.Reminder, error) {
	row := db.conn.QueryRow(`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find by id: %w", err)
	}
	return r, nil
}

// FindDue returns reminders eligible for delivery at now, mirroring the
// engine's due predicate: active, not completed/dismissed, and either
// pending past due_at, snoozed past snoozed_until, or repeating past
// next_trigger.
func (db *DB) FindDue(now time.Time) ([]*models.Reminder, error) {
	rows, err := db.conn.Query(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE active = 1
		  AND status NOT IN ('completed', 'dismissed')
		  AND (
			(status = 'pending' AND due_at <= ?)
			OR (status = 'snoozed' AND snoozed_until IS NOT NULL AND snoozed_until <= ?)
			OR (is_repeating = 1 AND next_trigger IS NOT NULL AND next_trigger <= ?)
		  )
		ORDER BY due_at
	`, now.UTC(), now.UTC(), now.UTC())
	if err != nil {
		return nil, fmt.Errorf("store: find due: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// ListByOwner returns all reminders for an owner, newest due first.
func (db *DB) ListByOwner(ownerID string) ([]*models.Reminder, error) {
	rows, err := db.conn.Query(`SELECT `+reminderColumns+` FROM reminders WHERE owner_id = ? ORDER BY due_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: list by owner: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// Delete hard-deletes a reminder.
func (db *DB) Delete(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM reminders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete reminder: %w", err)
	}
	return nil
}

// Count returns the total number of stored reminders.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM reminders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReminder(row scannable) (*models.Reminder, error) {
	var (
		r           models.Reminder
		repeat      string
		status      string
		color       string
		snoozed     sql.NullTime
		next        sql.NullTime
		triggered   sql.NullTime
		completed   sql.NullTime
		historyJSON string
	)
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Title, &r.Body, &r.DueAt, &r.Timezone,
		&r.IsRepeating, &repeat, &r.Active, &status,
		&snoozed, &next, &triggered, &r.TriggerCount,
		&r.CompletionNote, &completed, &color, &r.WordCount,
		&r.SnoozeCount, &historyJSON,
		&r.ContactName, &r.ContactPhone, &r.ContactEmail, &r.ContactLocation,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.RepeatInterval = models.RepeatInterval(repeat)
	r.Status = models.Status(status)
	r.ResponseColor = models.ResponseColor(color)
	r.SnoozedUntil = timePtr(snoozed)
	r.NextTrigger = timePtr(next)
	r.LastTriggered = timePtr(triggered)
	r.CompletedAt = timePtr(completed)
	if historyJSON != "" && historyJSON != "[]" {
		if err := json.Unmarshal([]byte(historyJSON), &r.EditHistory); err != nil {
			return nil, fmt.Errorf("unmarshal edit history: %w", err)
		}
	}
	return &r, nil
}

func collectReminders(rows *sql.Rows) ([]*models.Reminder, error) {
	var out []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

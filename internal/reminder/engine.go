package reminder

import (
	"strings"
	"time"

	"github.com/starford/hermod/internal/models"
)

// Classify grades a completion note by word count. Tokens are produced
// by splitting on whitespace; empty tokens do not count.
func Classify(note string) (models.ResponseColor, int) {
	n := len(strings.Fields(note))
	switch {
	case n < 10:
		return models.ColorRed, n
	case n <= 20:
		return models.ColorYellow, n
	default:
		return models.ColorGreen, n
	}
}

// recomputeNextTrigger advances a repeating reminder's next trigger
// past now. The base is the current next trigger when set, otherwise
// the due time, so a long-idle system never produces a trigger already
// in the past. Non-repeating and suppressed reminders get a nil
// trigger.
func recomputeNextTrigger(r *models.Reminder, now time.Time) {
	if !r.IsRepeating || !r.Active || !r.RepeatInterval.Valid() {
		r.NextTrigger = nil
		return
	}
	t := r.DueAt
	if r.NextTrigger != nil {
		t = *r.NextTrigger
	}
	for !t.After(now) {
		t = r.RepeatInterval.Next(t)
	}
	r.NextTrigger = &t
}

// applyTrigger performs post-dispatch bookkeeping on a reminder: a
// snoozed reminder returns to pending, the delivery timestamp and
// counter advance, and repeating reminders get their next trigger
// recomputed.
func applyTrigger(r *models.Reminder, now time.Time) {
	if r.Status == models.StatusSnoozed {
		r.Status = models.StatusPending
		r.SnoozedUntil = nil
	}
	t := now
	r.LastTriggered = &t
	r.TriggerCount++
	if r.IsRepeating && r.Active {
		recomputeNextTrigger(r, now)
	}
	r.UpdatedAt = now
}

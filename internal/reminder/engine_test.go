package reminder

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/hermod/internal/models"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		words int
		want  models.ResponseColor
	}{
		{0, models.ColorRed},
		{2, models.ColorRed},
		{9, models.ColorRed},
		{10, models.ColorYellow},
		{15, models.ColorYellow},
		{20, models.ColorYellow},
		{21, models.ColorGreen},
		{40, models.ColorGreen},
	}
	for _, tc := range cases {
		note := strings.TrimSpace(strings.Repeat("word ", tc.words))
		color, n := Classify(note)
		if n != tc.words {
			t.Errorf("word count for %d words = %d", tc.words, n)
		}
		if color != tc.want {
			t.Errorf("%d words: color = %q, want %q", tc.words, color, tc.want)
		}
	}
}

func TestClassifyIgnoresExtraWhitespace(t *testing.T) {
	color, n := Classify("  spoke   with\tclient\n today  ")
	if n != 4 {
		t.Errorf("word count = %d, want 4", n)
	}
	if color != models.ColorRed {
		t.Errorf("color = %q, want red", color)
	}
}

func TestRecomputeNextTriggerSkipsPast(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(-25 * time.Hour)
	r := &models.Reminder{
		DueAt:          due,
		IsRepeating:    true,
		RepeatInterval: models.RepeatDaily,
		Active:         true,
		NextTrigger:    &due,
	}

	recomputeNextTrigger(r, now)

	want := due.AddDate(0, 0, 2)
	if r.NextTrigger == nil || !r.NextTrigger.Equal(want) {
		t.Fatalf("next trigger = %v, want %v", r.NextTrigger, want)
	}
	if !r.NextTrigger.After(now) {
		t.Error("next trigger must be strictly after now")
	}
}

func TestRecomputeNextTriggerLongIdle(t *testing.T) {
	// A weekly reminder untouched for months must land in the future,
	// not on the next stale slot.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, -6, 0)
	r := &models.Reminder{
		DueAt:          due,
		IsRepeating:    true,
		RepeatInterval: models.RepeatWeekly,
		Active:         true,
	}

	recomputeNextTrigger(r, now)

	if r.NextTrigger == nil || !r.NextTrigger.After(now) {
		t.Fatalf("next trigger = %v, want after %v", r.NextTrigger, now)
	}
	if r.NextTrigger.Sub(now) > 7*24*time.Hour {
		t.Errorf("next trigger %v overshoots by more than one interval", r.NextTrigger)
	}
}

func TestRecomputeNextTriggerMonthly(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := &models.Reminder{
		DueAt:          due,
		IsRepeating:    true,
		RepeatInterval: models.RepeatMonthly,
		Active:         true,
	}

	recomputeNextTrigger(r, now)

	want := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	if r.NextTrigger == nil || !r.NextTrigger.Equal(want) {
		t.Fatalf("next trigger = %v, want %v", r.NextTrigger, want)
	}
}

func TestRecomputeNextTriggerClearedWhenSuppressed(t *testing.T) {
	now := time.Now()
	trigger := now.Add(-time.Hour)

	inactive := &models.Reminder{
		IsRepeating:    true,
		RepeatInterval: models.RepeatDaily,
		Active:         false,
		NextTrigger:    &trigger,
	}
	recomputeNextTrigger(inactive, now)
	if inactive.NextTrigger != nil {
		t.Error("inactive reminder should have nil next trigger")
	}

	oneOff := &models.Reminder{Active: true, NextTrigger: &trigger}
	recomputeNextTrigger(oneOff, now)
	if oneOff.NextTrigger != nil {
		t.Error("non-repeating reminder should have nil next trigger")
	}
}

func TestApplyTriggerSnoozedReturnsToPending(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	until := now.Add(-time.Minute)
	r := &models.Reminder{
		Status:       models.StatusSnoozed,
		SnoozedUntil: &until,
		Active:       true,
		DueAt:        now.Add(-time.Hour),
	}

	applyTrigger(r, now)

	if r.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", r.Status)
	}
	if r.SnoozedUntil != nil {
		t.Error("snoozed_until should be cleared")
	}
	if r.LastTriggered == nil || !r.LastTriggered.Equal(now) {
		t.Errorf("last triggered = %v, want %v", r.LastTriggered, now)
	}
	if r.TriggerCount != 1 {
		t.Errorf("trigger count = %d, want 1", r.TriggerCount)
	}
}

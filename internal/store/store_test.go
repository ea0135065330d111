package store

import (
	"os"
	"testing"
	"time"

	"github.com/starford/hermod/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "hermod-store-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func baseReminder(id string, due time.Time) *models.Reminder {
	return &models.Reminder{
		ID:        id,
		OwnerID:   "emp-1",
		Title:     "call back",
		Body:      "about the flat on Elm St",
		DueAt:     due,
		Active:    true,
		Status:    models.StatusPending,
		CreatedAt: due.Add(-time.Hour),
		UpdatedAt: due.Add(-time.Hour),
	}
}

func TestSaveAndFindByID(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	r := baseReminder("r1", now)
	r.IsRepeating = true
	r.RepeatInterval = models.RepeatWeekly
	r.NextTrigger = &now
	r.EditHistory = []models.EditEntry{{OldContent: "a", NewContent: "b", EditedAt: now, EditedBy: "emp-1"}}
	r.ContactName = "B. Seller"

	if err := db.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := db.FindByID("r1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("reminder not found")
	}
	if got.Title != r.Title || got.OwnerID != r.OwnerID || got.ContactName != "B. Seller" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.RepeatInterval != models.RepeatWeekly || !got.IsRepeating {
		t.Errorf("repeat fields lost: %+v", got)
	}
	if got.NextTrigger == nil || !got.NextTrigger.Equal(now) {
		t.Errorf("next trigger = %v, want %v", got.NextTrigger, now)
	}
	if len(got.EditHistory) != 1 || got.EditHistory[0].NewContent != "b" {
		t.Errorf("edit history = %+v", got.EditHistory)
	}
}

func TestFindByIDMissing(t *testing.T) {
	db := testDB(t)
	got, err := db.FindByID("nope")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestSaveIsUpsert(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	r := baseReminder("r1", now)
	if err := db.Save(r); err != nil {
		t.Fatal(err)
	}
	r.Status = models.StatusSnoozed
	until := now.Add(15 * time.Minute)
	r.SnoozedUntil = &until
	r.SnoozeCount = 1
	if err := db.Save(r); err != nil {
		t.Fatal(err)
	}

	got, _ := db.FindByID("r1")
	if got.Status != models.StatusSnoozed || got.SnoozeCount != 1 {
		t.Errorf("update lost: %+v", got)
	}
	if got.SnoozedUntil == nil || !got.SnoozedUntil.Equal(until) {
		t.Errorf("snoozed until = %v, want %v", got.SnoozedUntil, until)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 (save must upsert)", n)
	}
}

func TestFindDuePredicate(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	overdue := baseReminder("overdue", past)

	notYet := baseReminder("not-yet", future)

	snoozedDue := baseReminder("snoozed-due", past)
	snoozedDue.Status = models.StatusSnoozed
	snoozedDue.SnoozedUntil = &past

	snoozedLater := baseReminder("snoozed-later", past)
	snoozedLater.Status = models.StatusSnoozed
	snoozedLater.SnoozedUntil = &future

	repeating := baseReminder("repeating", future)
	repeating.IsRepeating = true
	repeating.RepeatInterval = models.RepeatDaily
	repeating.NextTrigger = &past

	completed := baseReminder("completed", past)
	completed.Status = models.StatusCompleted

	dismissed := baseReminder("dismissed", past)
	dismissed.Status = models.StatusDismissed

	suppressed := baseReminder("suppressed", past)
	suppressed.Active = false

	for _, r := range []*models.Reminder{overdue, notYet, snoozedDue, snoozedLater, repeating, completed, dismissed, suppressed} {
		if err := db.Save(r); err != nil {
			t.Fatalf("Save %s: %v", r.ID, err)
		}
	}

	due, err := db.FindDue(now)
	if err != nil {
		t.Fatalf("FindDue: %v", err)
	}

	got := map[string]bool{}
	for _, r := range due {
		got[r.ID] = true
	}
	want := []string{"overdue", "snoozed-due", "repeating"}
	if len(got) != len(want) {
		t.Fatalf("due = %v, want %v", got, want)
	}
	for _, id := range want {
		if !got[id] {
			t.Errorf("expected %s to be due", id)
		}
	}
}

func TestFindDueNormalizesOffsets(t *testing.T) {
	db := testDB(t)
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00+05:30 is 14:30 UTC, two hours before the poll below.
	due := time.Date(2026, 3, 10, 20, 0, 0, 0, ist)
	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)

	overdue := baseReminder("offset-overdue", due)

	snoozed := baseReminder("offset-snoozed", due)
	snoozed.Status = models.StatusSnoozed
	snoozed.SnoozedUntil = &due

	notYet := baseReminder("offset-not-yet", time.Date(2026, 3, 11, 0, 0, 0, 0, ist))

	for _, r := range []*models.Reminder{overdue, snoozed, notYet} {
		if err := db.Save(r); err != nil {
			t.Fatalf("Save %s: %v", r.ID, err)
		}
	}

	due2, err := db.FindDue(now.In(ist))
	if err != nil {
		t.Fatalf("FindDue: %v", err)
	}
	got := map[string]bool{}
	for _, r := range due2 {
		got[r.ID] = true
	}
	if !got["offset-overdue"] || !got["offset-snoozed"] {
		t.Fatalf("past-due offset reminders not selected: %v", got)
	}
	if got["offset-not-yet"] {
		t.Error("future reminder selected")
	}

	back, err := db.FindByID("offset-overdue")
	if err != nil {
		t.Fatal(err)
	}
	if !back.DueAt.Equal(due) {
		t.Errorf("due_at = %v, want instant %v", back.DueAt, due)
	}
}

func TestListByOwnerAndDelete(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	mine := baseReminder("mine", now)
	other := baseReminder("other", now)
	other.OwnerID = "emp-2"
	for _, r := range []*models.Reminder{mine, other} {
		if err := db.Save(r); err != nil {
			t.Fatal(err)
		}
	}

	list, err := db.ListByOwner("emp-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "mine" {
		t.Errorf("list = %+v", list)
	}

	if err := db.Delete("mine"); err != nil {
		t.Fatal(err)
	}
	got, _ := db.FindByID("mine")
	if got != nil {
		t.Error("reminder should be gone after delete")
	}
}

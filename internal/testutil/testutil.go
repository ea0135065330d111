// Package testutil provides shared test helpers for setting up stores
// and clocks.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/hermod/internal/clock"
	"github.com/starford/hermod/internal/store"
)

// TestStore creates a temporary SQLite store that is automatically cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "hermod-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestClock returns a fixed clock pinned to a round UTC instant.
func TestClock() *clock.Fixed {
	return &clock.Fixed{T: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

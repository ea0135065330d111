package store

import (
	"time"

	"github.com/starford/hermod/internal/models"
)

// ReminderStore defines the persistence operations the lifecycle engine
// depends on. Consumers should accept this interface rather than the
// concrete *DB type so tests can inject fakes.
type ReminderStore interface {
	Save(r *models.Reminder) error
	FindByID(id string) (*models.Reminder, error)
	FindDue(now time.Time) ([]*models.Reminder, error)
	ListByOwner(ownerID string) ([]*models.Reminder, error)
	Delete(id string) error
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies ReminderStore at compile time.
var _ ReminderStore = (*DB)(nil)

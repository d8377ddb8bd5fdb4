package task

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = errors.New("task not found")

// Predicate selects tasks during a filtered scan.
type Predicate func(*Task) bool

// Repository is the storage abstraction for tasks, independent of in-memory
// vs. durable backing. Implementations must be safe for concurrent use and
// must never filter on the Deleted flag: visibility policy belongs to the
// service layer. Implementations hand out copies so callers cannot mutate
// stored state in place; a single Save is atomic and same-ID races are
// last-write-wins.
type Repository interface {
	// Save inserts or overwrites the entry keyed by the task's ID.
	Save(ctx context.Context, t *Task) error

	// FindByID returns the entry for id, or ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*Task, error)

	// FindAll returns every stored entry in unspecified order.
	FindAll(ctx context.Context) ([]*Task, error)

	// FindWhere returns the entries satisfying pred. Equivalent to FindAll
	// followed by a filter; backends may implement it more efficiently.
	FindWhere(ctx context.Context, pred Predicate) ([]*Task, error)

	// DeleteByID physically removes the entry for id. Removing an absent
	// entry is not an error.
	DeleteByID(ctx context.Context, id string) error
}

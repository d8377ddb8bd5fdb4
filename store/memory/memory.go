// Package memory provides an in-memory task store.
package memory

import (
	"context"
	"sync"

	"github.com/example/task-tracker/domain/task"
)

// Store keeps tasks in an RWMutex-guarded map. Entries are stored by value,
// so callers never share memory with the map: a Save snapshots the task and
// reads hand out fresh copies.
type Store struct {
	tasks map[string]task.Task
	mu    sync.RWMutex
}

var _ task.Repository = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		tasks: make(map[string]task.Task),
	}
}

// Save inserts or overwrites the entry keyed by the task's ID.
func (s *Store) Save(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[t.ID] = *t
	return nil
}

// FindByID returns the entry for id, or task.ErrNotFound when absent.
func (s *Store) FindByID(_ context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, found := s.tasks[id]
	if !found {
		return nil, task.ErrNotFound
	}
	return &t, nil
}

// FindAll returns every stored entry in unspecified order.
func (s *Store) FindAll(_ context.Context) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		t := t
		result = append(result, &t)
	}
	return result, nil
}

// FindWhere returns the entries satisfying pred.
func (s *Store) FindWhere(_ context.Context, pred task.Predicate) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*task.Task
	for _, t := range s.tasks {
		t := t
		if pred(&t) {
			result = append(result, &t)
		}
	}
	return result, nil
}

// DeleteByID removes the entry for id. Removing an absent entry is a no-op.
func (s *Store) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tasks, id)
	return nil
}

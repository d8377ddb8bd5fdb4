// Package sqlite provides a GORM + SQLite task store.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/task-tracker/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists tasks through GORM. The Deleted flag is an ordinary column:
// soft-deleted rows stay visible to every query here, the service layer
// decides what the caller may see.
type Store struct {
	db *gorm.DB
}

var _ task.Repository = (*Store)(nil)

// Open opens (or creates) the SQLite database at path and migrates the task
// table.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an existing GORM connection and migrates the task table.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&task.Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tasks table: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts or overwrites the row keyed by the task's ID.
func (s *Store) Save(ctx context.Context, t *task.Task) error {
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID returns the row for id, or task.ErrNotFound when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindAll returns every stored row.
func (s *Store) FindAll(ctx context.Context) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := s.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// FindWhere returns the rows satisfying pred. The predicate is opaque, so the
// scan happens in the database and the filter in Go.
func (s *Store) FindWhere(ctx context.Context, pred task.Predicate) ([]*task.Task, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var result []*task.Task
	for _, t := range all {
		if pred(t) {
			result = append(result, t)
		}
	}
	return result, nil
}

// DeleteByID physically removes the row for id. Removing an absent row is a
// no-op.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

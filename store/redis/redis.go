// Package redis provides a Redis-backed task store. Tasks are stored as JSON
// values under a key prefix, one key per task ID.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/task-tracker/domain/task"
	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 100

// Store persists tasks in Redis. Each Save is a single SET, so writes are
// atomic per task and same-ID races are last-write-wins.
type Store struct {
	client *redis.Client
	prefix string
}

var _ task.Repository = (*Store)(nil)

// New creates a store on top of an existing Redis client. All keys are
// namespaced with prefix (for example "tasks:").
func New(client *redis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Save inserts or overwrites the entry keyed by the task's ID.
func (s *Store) Save(ctx context.Context, t *task.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := s.client.Set(ctx, s.key(t.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID returns the entry for id, or task.ErrNotFound when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*task.Task, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &t, nil
}

// FindAll returns every stored entry by scanning the key prefix.
func (s *Store) FindAll(ctx context.Context) ([]*task.Task, error) {
	return s.FindWhere(ctx, func(*task.Task) bool { return true })
}

// FindWhere returns the entries satisfying pred.
func (s *Store) FindWhere(ctx context.Context, pred task.Predicate) ([]*task.Task, error) {
	var result []*task.Task
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan tasks: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					// Deleted between SCAN and GET.
					continue
				}
				return nil, fmt.Errorf("failed to read task %s: %w", key, err)
			}
			var t task.Task
			if err := json.Unmarshal(data, &t); err != nil {
				return nil, fmt.Errorf("failed to unmarshal task %s: %w", key, err)
			}
			if pred(&t) {
				result = append(result, &t)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return result, nil
}

// DeleteByID removes the entry for id. Removing an absent entry is a no-op.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

package task

import (
	"context"
	"fmt"
	"sort"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/google/uuid"
)

// Service owns the task business rules: existence and visibility checks,
// partial-update merging, soft deletion, and the filter/sort/paginate list
// pipeline. All mutable state lives in the injected repository; the service
// itself is stateless and safe for concurrent use. The read-then-write
// sequences in Update and Delete are not atomic across the two store calls,
// so concurrent writers to the same ID race last-write-wins.
type Service struct {
	repo domain.Repository
}

// NewService creates a task service on top of the given repository.
func NewService(repo domain.Repository) *Service {
	return &Service{repo: repo}
}

// Create builds a task with a fresh ID, defaults an empty status to PENDING,
// and persists it with a single store write.
func (s *Service) Create(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}

	now := time.Now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return t, nil
}

// Get returns the task for id, or domain.ErrNotFound when no entry exists or
// the entry is soft-deleted.
func (s *Service) Get(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Deleted {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// Update overwrites exactly the fields supplied in req on the stored task,
// leaving the rest untouched. An empty request is a no-op that returns the
// task unchanged. Inherits Get's failure semantics.
func (s *Service) Update(ctx context.Context, id string, req *UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Title != nil {
		t.Title = *req.Title
		changed = true
	}
	if req.Description != nil {
		t.Description = *req.Description
		changed = true
	}
	if req.Status != nil {
		t.Status = *req.Status
		changed = true
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
		changed = true
	}
	if !changed {
		return t, nil
	}

	t.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Delete marks the task as deleted and persists it. The entry stays in the
// store but becomes invisible to Get and List. Inherits Get's failure
// semantics.
func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	t.Deleted = true
	t.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, t); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// List returns one page of visible tasks: fetched (filtered by status when
// non-empty), stripped of soft-deleted entries, stably sorted by due date
// ascending, then sliced by zero-based page arithmetic. Pages past the end
// of the result set are empty, not an error.
func (s *Service) List(ctx context.Context, status domain.Status, page, pageSize int) ([]*domain.Task, error) {
	var tasks []*domain.Task
	var err error
	if status != "" {
		tasks, err = s.repo.FindWhere(ctx, func(t *domain.Task) bool {
			return t.Status == status
		})
	} else {
		tasks, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	// Deleted tasks are dropped before pagination so they never consume a
	// page slot.
	visible := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Deleted {
			visible = append(visible, t)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].DueDate.Before(visible[j].DueDate)
	})

	n := len(visible)
	start := page * pageSize
	if start < 0 || start > n {
		start = n
	}
	end := start + pageSize
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return visible[start:end], nil
}

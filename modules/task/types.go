package task

import (
	"context"
	"time"

	domain "github.com/example/task-tracker/domain/task"
)

// CreateTaskRequest is the request for creating a task. Status may be empty,
// in which case the task starts as PENDING.
type CreateTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      domain.Status `json:"status,omitempty"`
	DueDate     time.Time     `json:"due_date"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest is the request for partially updating a task. Nil fields
// are left untouched on the stored task.
type UpdateTaskRequest struct {
	TaskID      string         `json:"task_id"`
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *domain.Status `json:"status,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	TaskID  string `json:"task_id"`
	Deleted bool   `json:"deleted"`
}

// ListTasksRequest is the request for listing tasks. Status is an optional
// filter; Page is zero-based.
type ListTasksRequest struct {
	Status   domain.Status `json:"status,omitempty"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// ListTasksResponse is the response for listing tasks. Total counts the tasks
// on the returned page.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// TaskResponse is the response for a single task. DueDate uses the
// YYYY-MM-DD wire format.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     string    `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPort defines the interface for task operations (hexagonal port).
// Driving adapters such as the HTTP API interact with the core domain
// through this contract.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
}

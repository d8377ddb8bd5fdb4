package task

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/store/memory"
	redisstore "github.com/example/task-tracker/store/redis"
	"github.com/example/task-tracker/store/sqlite"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
)

// TaskModule provides task management services (core domain). The storage
// backend is chosen via TASK_STORE: "memory" (default), "sqlite" (DB_PATH)
// or "redis" (REDIS_ADDR).
type TaskModule struct {
	service  *Service
	repo     domain.Repository
	backend  string
	eventBus mono.EventBus
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a TaskModule configured by the environment. The
// repository is opened in Start.
func NewModule() *TaskModule {
	backend := os.Getenv("TASK_STORE")
	if backend == "" {
		backend = "memory"
	}
	return &TaskModule{backend: backend}
}

// NewModuleWithRepository creates a TaskModule on an explicit repository.
func NewModuleWithRepository(repo domain.Repository) *TaskModule {
	return &TaskModule{
		service: NewService(repo),
		repo:    repo,
		backend: "injected",
	}
}

func openRepository(backend string) (domain.Repository, error) {
	switch backend {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "tasks.db"
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		return redisstore.New(client, "tasks:"), nil
	default:
		return nil, fmt.Errorf("unknown task store backend: %q", backend)
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	log.Printf("[task] Registered services: create-task, get-task, update-task, delete-task, list-tasks")
	return nil
}

// Health returns the health status of the module, pinging the backing store
// when it supports that.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	if pinger, ok := m.repo.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("store ping failed: %v", err),
			}
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"store": m.backend,
		},
	}
}

// Start opens the configured repository unless one was injected.
func (m *TaskModule) Start(_ context.Context) error {
	if m.service == nil {
		repo, err := openRepository(m.backend)
		if err != nil {
			return err
		}
		m.repo = repo
		m.service = NewService(repo)
	}

	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}
	log.Printf("[task] Module started (store: %s)", m.backend)
	return nil
}

// Stop releases the repository's underlying connection, if it holds one.
func (m *TaskModule) Stop(_ context.Context) error {
	if closer, ok := m.repo.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close task store: %w", err)
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

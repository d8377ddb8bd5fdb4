package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/task"
	"github.com/example/task-tracker/store/memory"
	"github.com/gofiber/fiber/v2"
)

// localPort satisfies TaskPort by calling the core service directly, so the
// HTTP layer can be exercised without the mono service container.
type localPort struct {
	svc *task.Service
}

func (p *localPort) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
	t, err := p.svc.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return toPortResponse(t), nil
}

func (p *localPort) GetTask(ctx context.Context, taskID string) (*task.TaskResponse, error) {
	t, err := p.svc.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return toPortResponse(t), nil
}

func (p *localPort) UpdateTask(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	t, err := p.svc.Update(ctx, req.TaskID, req)
	if err != nil {
		return nil, err
	}
	return toPortResponse(t), nil
}

func (p *localPort) DeleteTask(ctx context.Context, taskID string) error {
	return p.svc.Delete(ctx, taskID)
}

func (p *localPort) ListTasks(ctx context.Context, req *task.ListTasksRequest) (*task.ListTasksResponse, error) {
	tasks, err := p.svc.List(ctx, req.Status, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	resp := &task.ListTasksResponse{
		Tasks: make([]task.TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, *toPortResponse(t))
	}
	return resp, nil
}

func toPortResponse(t *domain.Task) *task.TaskResponse {
	return &task.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate.Format(domain.DateLayout),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// setupTestAPI builds a Fiber app wired to a fresh in-memory service.
func setupTestAPI(t *testing.T) *fiber.App {
	t.Helper()

	m := &APIModule{
		taskAdapter: &localPort{svc: task.NewService(memory.New())},
		port:        3000,
	}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})
	m.setupRoutes()
	return m.app
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func decodeTask(t *testing.T, resp *http.Response) TaskResponse {
	t.Helper()
	var body TaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func createTask(t *testing.T, app *fiber.App, title, status, due string) TaskResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", CreateTaskRequest{
		Title:   title,
		Status:  status,
		DueDate: due,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create returned status %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}
	return decodeTask(t, resp)
}

func TestAPI_CreateTask(t *testing.T) {
	app := setupTestAPI(t)

	t.Run("valid request", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", CreateTaskRequest{
			Title:       "Write report",
			Description: "Q3 numbers",
			DueDate:     futureDate(3),
		})
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
		}
		body := decodeTask(t, resp)
		if body.ID == "" {
			t.Error("expected a generated id")
		}
		if body.Status != string(domain.StatusPending) {
			t.Errorf("status = %q, want %q", body.Status, domain.StatusPending)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", CreateTaskRequest{
			DueDate: futureDate(3),
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("past due date", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", CreateTaskRequest{
			Title:   "Late",
			DueDate: futureDate(-1),
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("malformed due date", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", CreateTaskRequest{
			Title:   "Bad date",
			DueDate: "15/09/2026",
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks/", CreateTaskRequest{
			Title:   "Weird",
			Status:  "CANCELLED",
			DueDate: futureDate(3),
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})
}

func TestAPI_GetTask(t *testing.T) {
	app := setupTestAPI(t)
	created := createTask(t, app, "Readable", "", futureDate(2))

	t.Run("existing task", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID, nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		body := decodeTask(t, resp)
		if body.ID != created.ID || body.Title != "Readable" {
			t.Errorf("body = %+v, want id %s title %q", body, created.ID, "Readable")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/tasks/no-such-id", nil)
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
		}
	})
}

func TestAPI_UpdateTask(t *testing.T) {
	app := setupTestAPI(t)
	created := createTask(t, app, "Original", "", futureDate(2))

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		status := string(domain.StatusDone)
		resp := doJSON(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, UpdateTaskRequest{
			Status: &status,
		})
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		body := decodeTask(t, resp)
		if body.Status != status {
			t.Errorf("status = %q, want %q", body.Status, status)
		}
		if body.Title != "Original" {
			t.Errorf("title = %q, want %q", body.Title, "Original")
		}
		if body.DueDate != created.DueDate {
			t.Errorf("due date = %q, want %q", body.DueDate, created.DueDate)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		status := "NOT_A_STATUS"
		resp := doJSON(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, UpdateTaskRequest{
			Status: &status,
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("past due date", func(t *testing.T) {
		past := futureDate(-2)
		resp := doJSON(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, UpdateTaskRequest{
			DueDate: &past,
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		title := "Renamed"
		resp := doJSON(t, app, http.MethodPut, "/api/v1/tasks/no-such-id", UpdateTaskRequest{
			Title: &title,
		})
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
		}
	})
}

func TestAPI_DeleteTask(t *testing.T) {
	app := setupTestAPI(t)
	created := createTask(t, app, "Doomed", "", futureDate(2))

	resp := doJSON(t, app, http.MethodDelete, "/api/v1/tasks/"+created.ID, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusNoContent)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/tasks/"+created.ID, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
	}
}

func TestAPI_ListTasks(t *testing.T) {
	app := setupTestAPI(t)

	third := createTask(t, app, "Third due", string(domain.StatusDone), futureDate(3))
	first := createTask(t, app, "First due", "", futureDate(1))
	second := createTask(t, app, "Second due", string(domain.StatusInProgress), futureDate(2))

	listTasks := func(t *testing.T, target string) ListTasksResponse {
		t.Helper()
		resp := doJSON(t, app, http.MethodGet, target, nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		var body ListTasksResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return body
	}

	t.Run("default page size covers three tasks in due order", func(t *testing.T) {
		body := listTasks(t, "/api/v1/tasks/")
		if body.Total != 3 {
			t.Fatalf("total = %d, want 3", body.Total)
		}
		wantOrder := []string{first.ID, second.ID, third.ID}
		for i, want := range wantOrder {
			if body.Tasks[i].ID != want {
				t.Errorf("tasks[%d].ID = %s, want %s", i, body.Tasks[i].ID, want)
			}
		}
	})

	t.Run("explicit paging", func(t *testing.T) {
		body := listTasks(t, "/api/v1/tasks/?page=1&size=1")
		if len(body.Tasks) != 1 {
			t.Fatalf("expected one task, got %d", len(body.Tasks))
		}
		if body.Tasks[0].ID != second.ID {
			t.Errorf("task = %s, want %s", body.Tasks[0].ID, second.ID)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		body := listTasks(t, fmt.Sprintf("/api/v1/tasks/?status=%s", domain.StatusDone))
		if len(body.Tasks) != 1 || body.Tasks[0].ID != third.ID {
			t.Errorf("filtered tasks = %+v, want only %s", body.Tasks, third.ID)
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		body := listTasks(t, "/api/v1/tasks/?page=9&size=5")
		if len(body.Tasks) != 0 {
			t.Errorf("expected empty page, got %d tasks", len(body.Tasks))
		}
	})

	t.Run("invalid status filter", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/tasks/?status=stuck", nil)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("negative page", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/tasks/?page=-1", nil)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})
}

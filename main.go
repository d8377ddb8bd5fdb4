package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/notification"
	"github.com/example/task-tracker/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Optional .env file; real environment wins.
	_ = godotenv.Load()

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: independent modules first, then modules with dependencies.
	app.Register(notification.NewModule()) // Event consumer (subscribes to task events)
	app.Register(task.NewModule())         // Core domain (emits events)
	app.Register(api.NewModule())          // Driving adapter (depends on task)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Task tracker started successfully!")
	log.Println("")
	log.Println("REST API Endpoints:")
	log.Println("  POST   /api/v1/tasks       - Create a task")
	log.Println("  GET    /api/v1/tasks       - List tasks (status, page, size)")
	log.Println("  GET    /api/v1/tasks/:id   - Get a task by ID")
	log.Println("  PUT    /api/v1/tasks/:id   - Partially update a task")
	log.Println("  DELETE /api/v1/tasks/:id   - Delete a task")
	log.Println("  GET    /health             - Health check")
	log.Println("")
	log.Println("Configuration:")
	log.Println("  TASK_STORE = memory | sqlite | redis (default memory)")
	log.Println("  DB_PATH    - SQLite database path (default tasks.db)")
	log.Println("  REDIS_ADDR - Redis address (default localhost:6379)")
	log.Println("  PORT       - HTTP listen port (default 3000)")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

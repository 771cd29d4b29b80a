package main

import (
	"context"
	"log"
	"os"

	"github.com/example/taskflow/config"
	"github.com/example/taskflow/modules/activity"
	"github.com/example/taskflow/modules/api"
	"github.com/example/taskflow/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("=== %s - Task Service ===", cfg.ServiceName)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	activityModule, err := activity.NewModule(cfg.ActivityLimit, logger.WithModule("activity"))
	if err != nil {
		log.Fatalf("Failed to create activity module: %v", err)
	}

	// Order: independent modules first, then modules with dependencies
	app.Register(activityModule)                                 // Event consumer (subscribes to task events)
	app.Register(task.NewModule(cfg, logger.WithModule("task"))) // Core domain (storage, emits events)
	app.Register(api.NewModule(cfg, logger.WithModule("api")))   // Driving adapter (depends on task, activity)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
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

func printStartupInfo(cfg config.Config) {
	p := cfg.APIPrefix
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("Storage: %s", cfg.StoreDriver)
	if cfg.CacheEnabled() {
		log.Printf("List cache: redis at %s (ttl %s)", cfg.RedisAddr, cfg.CacheTTL)
	}
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s):", cfg.HTTPAddr)
	log.Printf("  GET    %s/tasks       - List all tasks (newest first)", p)
	log.Printf("  POST   %s/tasks       - Create a task", p)
	log.Printf("  PUT    %s/tasks/:id   - Update a task", p)
	log.Printf("  DELETE %s/tasks/:id   - Delete a task", p)
	log.Printf("  GET    %s/activity    - Recent task activity", p)
	log.Printf("  GET    %s/health      - Health check", p)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/project-hub/internal/app"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/config"
	"github.com/yourusername/project-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment == "production")
	log.Info("Starting scheduler service", map[string]interface{}{
		"app_name": cfg.App.Name,
	})

	application, err := app.NewApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	schedulerService := service.NewSchedulerService(
		application.Repositories.TaskRepository,
		application.Repositories.UserRepository,
		application.Services.NotificationService,
		&cfg.Scheduler,
		log,
	)

	if err := schedulerService.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler service", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Info("Shutting down scheduler service")
	cancel()

	log.Info("Scheduler service stopped")
}

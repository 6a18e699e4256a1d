package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/project-hub/internal/app"
	"github.com/yourusername/project-hub/internal/messaging"
	"github.com/yourusername/project-hub/internal/repository"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/config"
	"github.com/yourusername/project-hub/pkg/logger"
)

// dispatcher направляет доменные события в сервис уведомлений
type dispatcher struct {
	notifications *service.NotificationService
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	logger        logger.Logger
}

// handle десериализует событие по его типу и вызывает соответствующий обработчик
func (d *dispatcher) handle(ctx context.Context, eventType string, payload []byte) error {
	switch eventType {
	case messaging.EventTypeTaskCreated, messaging.EventTypeTaskTransitioned:
		var event messaging.TaskEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal task event: %w", err)
		}
		return d.notifications.HandleTaskEvent(ctx, eventType, &event)

	case messaging.EventTypeTeamMemberAdded:
		var event messaging.TeamMemberEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal team member event: %w", err)
		}
		return d.notifications.HandleTeamMemberEvent(ctx, eventType, &event)

	case messaging.EventTypeSprintCreated:
		var event messaging.SprintEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal sprint event: %w", err)
		}
		recipients, err := d.projectTeam(ctx, event.ProjectID)
		if err != nil {
			return err
		}
		return d.notifications.HandleSprintEvent(ctx, eventType, &event, recipients)

	case messaging.EventTypeCommentAdded:
		var event messaging.CommentEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("unmarshal comment event: %w", err)
		}
		recipients, err := d.taskWatchers(ctx, event.TaskID)
		if err != nil {
			return err
		}
		return d.notifications.HandleCommentEvent(ctx, &event, recipients)
	}

	d.logger.Debug("Ignoring event", map[string]interface{}{"event_type": eventType})
	return nil
}

// projectTeam возвращает идентификаторы участников проекта
func (d *dispatcher) projectTeam(ctx context.Context, projectID string) ([]string, error) {
	project, err := d.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}
	return project.Team, nil
}

// taskWatchers возвращает исполнителей задачи вместе с ее автором
func (d *dispatcher) taskWatchers(ctx context.Context, taskID string) ([]string, error) {
	task, err := d.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	watchers := append([]string{}, task.Assignees...)
	for _, id := range watchers {
		if id == task.CreatedBy {
			return watchers, nil
		}
	}
	return append(watchers, task.CreatedBy), nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment == "production")
	log.Info("Starting notifier service", map[string]interface{}{
		"app_name": cfg.App.Name,
		"group":    cfg.Kafka.ConsumerGroup,
	})

	application, err := app.NewApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	d := &dispatcher{
		notifications: application.Services.NotificationService,
		taskRepo:      application.Repositories.TaskRepository,
		projectRepo:   application.Repositories.ProjectRepository,
		logger:        log,
	}

	consumer := messaging.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topics.All(),
		cfg.Kafka.ConsumerGroup,
		d.handle,
		log,
	)
	defer consumer.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Run(ctx)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("Shutting down notifier service")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error("Consumer stopped with error", err)
		}
	}

	log.Info("Notifier service stopped")
}

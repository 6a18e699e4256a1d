package service

import (
	"context"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/messaging"
)

// EventPublisher публикует доменные события в брокер.
// Реализуется messaging.KafkaProducer; в тестах подменяется заглушкой.
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, eventType string, event *messaging.TaskEvent) error
	PublishProjectEvent(ctx context.Context, eventType string, event *messaging.ProjectEvent) error
	PublishTeamMemberEvent(ctx context.Context, eventType string, event *messaging.TeamMemberEvent) error
	PublishSprintEvent(ctx context.Context, eventType string, event *messaging.SprintEvent) error
	PublishCommentEvent(ctx context.Context, eventType string, event *messaging.CommentEvent) error
	PublishNotificationEvent(ctx context.Context, eventType string, event *messaging.NotificationEvent) error
}

// EntityCache кэширует доменные сущности и вычисленную статистику.
// Реализуется cache.RedisRepository. Ошибки кэша не фатальны:
// сервисы трактуют их как промах и идут в хранилище.
type EntityCache interface {
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	SetTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id string) error

	GetProject(ctx context.Context, id string) (*domain.Project, error)
	SetProject(ctx context.Context, project *domain.Project) error
	DeleteProject(ctx context.Context, id string) error

	GetSprint(ctx context.Context, id string) (*domain.Sprint, error)
	SetSprint(ctx context.Context, sprint *domain.Sprint) error
	DeleteSprint(ctx context.Context, id string) error

	GetProjectStats(ctx context.Context, projectID string) (*domain.ProjectStats, error)
	SetProjectStats(ctx context.Context, projectID string, stats *domain.ProjectStats) error
	GetSprintStats(ctx context.Context, sprintID string) (*domain.SprintStats, error)
	SetSprintStats(ctx context.Context, sprintID string, stats *domain.SprintStats) error
	InvalidateProjectStats(ctx context.Context, projectID string) error
}

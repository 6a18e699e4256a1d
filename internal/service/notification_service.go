package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/messaging"
	"github.com/yourusername/project-hub/internal/repository"
	"github.com/yourusername/project-hub/pkg/logger"
)

// NotificationService материализует уведомления из доменных событий
// и обслуживает их чтение
type NotificationService struct {
	repo   repository.NotificationRepository
	logger logger.Logger
}

// NewNotificationService создает сервис уведомлений
func NewNotificationService(repo repository.NotificationRepository, log logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: log}
}

// ListByUser возвращает уведомления пользователя, новые первыми
func (s *NotificationService) ListByUser(ctx context.Context, actor domain.Actor, limit, offset int) ([]*domain.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, actor.ID, limit, offset)
}

// MarkRead помечает уведомление прочитанным
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	return s.repo.MarkRead(ctx, id, actor.ID)
}

// CountUnread возвращает количество непрочитанных уведомлений
func (s *NotificationService) CountUnread(ctx context.Context, actor domain.Actor) (int, error) {
	return s.repo.CountUnread(ctx, actor.ID)
}

// HandleTaskEvent создает уведомления исполнителям задачи.
// Автор события уведомление о собственном действии не получает.
func (s *NotificationService) HandleTaskEvent(ctx context.Context, eventType string, event *messaging.TaskEvent) error {
	var notifType domain.NotificationType
	var title, content string

	switch eventType {
	case messaging.EventTypeTaskCreated:
		notifType = domain.NotificationTypeTaskAssigned
		title = "New task assigned"
		content = fmt.Sprintf("You were assigned to task %q", event.Title)
	case messaging.EventTypeTaskTransitioned:
		notifType = domain.NotificationTypeTaskTransitioned
		title = "Task status changed"
		content = fmt.Sprintf("Task %q moved to %s", event.Title, event.Status)
	default:
		return nil
	}

	for _, userID := range event.Assignees {
		if userID == event.ActorID {
			continue
		}
		if err := s.create(ctx, userID, notifType, title, content, event.ID, "task"); err != nil {
			return err
		}
	}
	return nil
}

// HandleTeamMemberEvent создает уведомление добавленному участнику
func (s *NotificationService) HandleTeamMemberEvent(ctx context.Context, eventType string, event *messaging.TeamMemberEvent) error {
	if eventType != messaging.EventTypeTeamMemberAdded {
		return nil
	}
	title := "Added to project team"
	content := fmt.Sprintf("You were added to the team of project %q", event.ProjectTitle)
	return s.create(ctx, event.UserID, domain.NotificationTypeTeamMemberAdded, title, content, event.ProjectID, "project")
}

// HandleSprintEvent создает уведомления о новом спринте.
// Получатели определяются на стороне отправителя события.
func (s *NotificationService) HandleSprintEvent(ctx context.Context, eventType string, event *messaging.SprintEvent, recipients []string) error {
	if eventType != messaging.EventTypeSprintCreated {
		return nil
	}
	title := "Sprint created"
	content := fmt.Sprintf("Sprint #%d %q started in your project", event.SprintNumber, event.Title)
	for _, userID := range recipients {
		if userID == event.ActorID {
			continue
		}
		if err := s.create(ctx, userID, domain.NotificationTypeSprintStarted, title, content, event.ID, "sprint"); err != nil {
			return err
		}
	}
	return nil
}

// HandleCommentEvent создает уведомления о новом комментарии
func (s *NotificationService) HandleCommentEvent(ctx context.Context, event *messaging.CommentEvent, recipients []string) error {
	title := "New comment"
	content := fmt.Sprintf("New comment on task %q", event.TaskTitle)
	for _, userID := range recipients {
		if userID == event.UserID {
			continue
		}
		if err := s.create(ctx, userID, domain.NotificationTypeCommentAdded, title, content, event.TaskID, "task"); err != nil {
			return err
		}
	}
	return nil
}

// NotifyTaskDue создает уведомление о приближающемся сроке задачи
func (s *NotificationService) NotifyTaskDue(ctx context.Context, task *domain.Task) error {
	title := "Task is overdue"
	content := fmt.Sprintf("Task %q is past its due date", task.Title)
	for _, userID := range task.Assignees {
		if err := s.create(ctx, userID, domain.NotificationTypeTaskDue, title, content, task.ID, "task"); err != nil {
			return err
		}
	}
	return nil
}

// NotifyDigest создает уведомление с ежедневной сводкой по задачам пользователя
func (s *NotificationService) NotifyDigest(ctx context.Context, userID, content string) error {
	return s.create(ctx, userID, domain.NotificationTypeDigest, "Daily task digest", content, userID, "digest")
}

func (s *NotificationService) create(ctx context.Context, userID string, notifType domain.NotificationType, title, content, entityID, entityType string) error {
	notification := &domain.Notification{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       notifType,
		Title:      title,
		Content:    content,
		EntityID:   entityID,
		EntityType: entityType,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	s.logger.Debug("notification created", "user_id", userID, "type", string(notifType))
	return nil
}

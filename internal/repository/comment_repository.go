package repository

import (
	"context"

	"github.com/yourusername/project-hub/internal/domain"
)

// CommentRepository определяет интерфейс для работы с хранилищем комментариев
type CommentRepository interface {
	// Create создает новый комментарий
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID возвращает комментарий по ID
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListByTask возвращает комментарии задачи в порядке создания
	ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error)

	// Delete удаляет комментарий по ID
	Delete(ctx context.Context, id string) error

	// DeleteByTask удаляет все комментарии задачи
	DeleteByTask(ctx context.Context, taskID string) error
}

// NotificationRepository определяет интерфейс для работы с хранилищем уведомлений
type NotificationRepository interface {
	// Create создает новое уведомление
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByUser возвращает уведомления пользователя, новые первыми
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error)

	// MarkRead помечает уведомление прочитанным
	MarkRead(ctx context.Context, id string, userID string) error

	// CountUnread возвращает количество непрочитанных уведомлений пользователя
	CountUnread(ctx context.Context, userID string) (int, error)
}

package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/yourusername/project-hub/internal/domain"
)

// NotificationRepository хранит уведомления в памяти
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*domain.Notification
}

// NewNotificationRepository создает пустой репозиторий уведомлений
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{notifications: make(map[string]*domain.Notification)}
}

// Create создает новое уведомление
func (r *NotificationRepository) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *notification
	r.notifications[notification.ID] = &clone
	return nil
}

// ListByUser возвращает уведомления пользователя, новые первыми
func (r *NotificationRepository) ListByUser(_ context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			clone := *n
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return paginate(list, limit, offset), nil
}

// MarkRead помечает уведомление прочитанным
func (r *NotificationRepository) MarkRead(_ context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return domain.NewNotFoundError("notification", id)
	}
	n.IsRead = true
	return nil
}

// CountUnread возвращает количество непрочитанных уведомлений пользователя
func (r *NotificationRepository) CountUnread(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

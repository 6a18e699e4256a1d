package domain

import (
	"time"
)

// NotificationType определяет тип уведомления
type NotificationType string

const (
	// NotificationTypeTaskAssigned - задача назначена пользователю
	NotificationTypeTaskAssigned NotificationType = "task_assigned"
	// NotificationTypeTaskTransitioned - у задачи изменился статус
	NotificationTypeTaskTransitioned NotificationType = "task_transitioned"
	// NotificationTypeTaskDue - приближается срок задачи
	NotificationTypeTaskDue NotificationType = "task_due"
	// NotificationTypeTeamMemberAdded - пользователь добавлен в команду проекта
	NotificationTypeTeamMemberAdded NotificationType = "team_member_added"
	// NotificationTypeSprintStarted - в проекте создан спринт
	NotificationTypeSprintStarted NotificationType = "sprint_started"
	// NotificationTypeCommentAdded - к задаче добавлен комментарий
	NotificationTypeCommentAdded NotificationType = "comment_added"
	// NotificationTypeDigest - ежедневная сводка по задачам пользователя
	NotificationTypeDigest NotificationType = "digest"
)

// Notification представляет уведомление пользователя.
// Уведомления материализуются из событий Kafka и не являются
// источником истины ни для каких производных данных.
type Notification struct {
	ID         string           `json:"id" db:"id"`
	UserID     string           `json:"user_id" db:"user_id"`
	Type       NotificationType `json:"type" db:"type"`
	Title      string           `json:"title" db:"title"`
	Content    string           `json:"content" db:"content"`
	EntityID   string           `json:"entity_id" db:"entity_id"`
	EntityType string           `json:"entity_type" db:"entity_type"`
	IsRead     bool             `json:"is_read" db:"is_read"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

// NotificationResponse представляет уведомление для API-ответов
type NotificationResponse struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	EntityID   string           `json:"entity_id"`
	EntityType string           `json:"entity_type"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ToResponse преобразует Notification в NotificationResponse
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Content:    n.Content,
		EntityID:   n.EntityID,
		EntityType: n.EntityType,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

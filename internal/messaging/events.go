package messaging

import (
	"time"
)

// Типы событий
const (
	EventTypeTaskCreated       = "task_created"
	EventTypeTaskUpdated       = "task_updated"
	EventTypeTaskTransitioned  = "task_transitioned"
	EventTypeTaskTimeLogged    = "task_time_logged"
	EventTypeProjectCreated    = "project_created"
	EventTypeProjectUpdated    = "project_updated"
	EventTypeTeamMemberAdded   = "team_member_added"
	EventTypeTeamMemberRemoved = "team_member_removed"
	EventTypeSprintCreated     = "sprint_created"
	EventTypeSprintDeleted     = "sprint_deleted"
	EventTypeCommentAdded      = "comment_added"
	EventTypeNotification      = "notification"
)

// TaskEvent представляет событие, связанное с задачей
type TaskEvent struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	ProjectID string                 `json:"project_id"`
	SprintID  *string                `json:"sprint_id,omitempty"`
	Status    string                 `json:"status"`
	Priority  string                 `json:"priority"`
	Assignees []string               `json:"assignees,omitempty"`
	ActorID   string                 `json:"actor_id"`
	DueDate   *time.Time             `json:"due_date,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
	Type      string                 `json:"type"`
	Changes   map[string]interface{} `json:"changes,omitempty"`
}

// ProjectEvent представляет событие, связанное с проектом
type ProjectEvent struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Client    string                 `json:"client,omitempty"`
	Status    string                 `json:"status"`
	ManagerID string                 `json:"manager_id"`
	ActorID   string                 `json:"actor_id"`
	UpdatedAt time.Time              `json:"updated_at"`
	Type      string                 `json:"type"`
	Changes   map[string]interface{} `json:"changes,omitempty"`
}

// TeamMemberEvent представляет событие изменения команды проекта
type TeamMemberEvent struct {
	ProjectID    string    `json:"project_id"`
	ProjectTitle string    `json:"project_title"`
	UserID       string    `json:"user_id"`
	ActorID      string    `json:"actor_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	Type         string    `json:"type"`
}

// SprintEvent представляет событие, связанное со спринтом
type SprintEvent struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	SprintNumber int       `json:"sprint_number"`
	ProjectID    string    `json:"project_id"`
	ActorID      string    `json:"actor_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	Type         string    `json:"type"`
}

// CommentEvent представляет событие добавления комментария
type CommentEvent struct {
	CommentID string    `json:"comment_id"`
	TaskID    string    `json:"task_id"`
	TaskTitle string    `json:"task_title"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Type      string    `json:"type"`
}

// NotificationEvent представляет событие для доставки уведомления
type NotificationEvent struct {
	UserIDs    []string          `json:"user_ids"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Type       string            `json:"type"`
	EntityID   string            `json:"entity_id"`
	EntityType string            `json:"entity_type"`
	CreatedAt  time.Time         `json:"created_at"`
	MetaData   map[string]string `json:"meta_data,omitempty"`
}

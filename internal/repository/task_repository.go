package repository

import (
	"context"
	"time"

	"github.com/yourusername/project-hub/internal/domain"
)

// TaskRepository определяет интерфейс для работы с хранилищем задач
type TaskRepository interface {
	// Create создает новую задачу
	Create(ctx context.Context, task *domain.Task) error

	// GetByID возвращает задачу по ID вместе с исполнителями,
	// тегами, подзадачами и вложениями
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// Update обновляет данные задачи
	Update(ctx context.Context, task *domain.Task) error

	// Delete удаляет задачу по ID
	Delete(ctx context.Context, id string) error

	// List возвращает список задач с фильтрацией
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Count возвращает количество задач с фильтрацией
	Count(ctx context.Context, filter TaskFilter) (int, error)

	// UpdateStatusIf выполняет условную запись статуса: статус меняется
	// на to только если текущее сохраненное значение равно from.
	// Возвращает false, если статус успел измениться из-под вызывающего.
	// completed_at перезаписывается только ненулевым completedAt,
	// прежняя отметка завершения при nil сохраняется.
	UpdateStatusIf(ctx context.Context, taskID string, from, to domain.TaskStatus, completedAt *time.Time) (bool, error)

	// UpdateAssignees заменяет набор исполнителей задачи
	UpdateAssignees(ctx context.Context, taskID string, assignees []string) error

	// UpdateTags заменяет теги задачи
	UpdateTags(ctx context.Context, taskID string, tags []string) error

	// UpdateSubtasks заменяет упорядоченный список подзадач
	UpdateSubtasks(ctx context.Context, taskID string, subtasks []domain.Subtask) error

	// UpdateAttachments заменяет вложения задачи
	UpdateAttachments(ctx context.Context, taskID string, attachments []string) error

	// AddActualHours атомарно увеличивает фактические часы задачи
	AddActualHours(ctx context.Context, taskID string, hours float64) error

	// LogTime добавляет запись о затраченном времени
	LogTime(ctx context.Context, timeLog *TimeLog) error

	// GetTimeLogs возвращает записи о затраченном времени задачи
	GetTimeLogs(ctx context.Context, taskID string) ([]*TimeLog, error)

	// UnassignSprint снимает все задачи с указанного спринта
	UnassignSprint(ctx context.Context, sprintID string) error

	// GetOverdueTasks возвращает незавершенные задачи с истекшим сроком
	GetOverdueTasks(ctx context.Context, now time.Time) ([]*domain.Task, error)
}

// TaskFilter содержит параметры для фильтрации задач
type TaskFilter struct {
	IDs        []string             `json:"ids,omitempty"`
	ProjectIDs []string             `json:"project_ids,omitempty"`
	SprintID   *string              `json:"sprint_id,omitempty"`
	Status     *domain.TaskStatus   `json:"status,omitempty"`
	Priority   *domain.TaskPriority `json:"priority,omitempty"`
	AssigneeID *string              `json:"assignee_id,omitempty"`
	CreatedBy  *string              `json:"created_by,omitempty"`
	DueBefore  *time.Time           `json:"due_before,omitempty"`
	DueAfter   *time.Time           `json:"due_after,omitempty"`
	Tags       []string             `json:"tags,omitempty"`
	SearchText *string              `json:"search_text,omitempty"`
	OrderBy    *string              `json:"order_by,omitempty"`
	OrderDir   *string              `json:"order_dir,omitempty"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

// TimeLog содержит запись о затраченном на задачу времени
type TimeLog struct {
	ID          string    `json:"id" db:"id"`
	TaskID      string    `json:"task_id" db:"task_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Hours       float64   `json:"hours" db:"hours"`
	Description string    `json:"description" db:"description"`
	LoggedAt    time.Time `json:"logged_at" db:"logged_at"`
}

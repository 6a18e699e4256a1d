package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
)

// TaskRepository хранит задачи и записи о времени в памяти
type TaskRepository struct {
	mu       sync.Mutex
	tasks    map[string]*domain.Task
	timeLogs map[string][]*repository.TimeLog // taskID -> записи
}

// NewTaskRepository создает пустой репозиторий задач
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks:    make(map[string]*domain.Task),
		timeLogs: make(map[string][]*repository.TimeLog),
	}
}

// Create создает новую задачу
func (r *TaskRepository) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetByID возвращает задачу по ID
func (r *TaskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.NewNotFoundError("task", id)
	}
	return cloneTask(task), nil
}

// Update обновляет данные задачи
func (r *TaskRepository) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return domain.NewNotFoundError("task", task.ID)
	}
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

// Delete удаляет задачу по ID
func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.NewNotFoundError("task", id)
	}
	delete(r.tasks, id)
	delete(r.timeLogs, id)
	return nil
}

// List возвращает список задач с фильтрацией
func (r *TaskRepository) List(_ context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Limit, filter.Offset), nil
}

// Count возвращает количество задач с фильтрацией
func (r *TaskRepository) Count(_ context.Context, filter repository.TaskFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.match(filter)), nil
}

// UpdateStatusIf выполняет условную запись статуса. Отметка завершения
// перезаписывается только ненулевым значением: при выходе из Review или
// Done прежний completed_at сохраняется.
func (r *TaskRepository) UpdateStatusIf(_ context.Context, taskID string, from, to domain.TaskStatus, completedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return false, domain.NewNotFoundError("task", taskID)
	}
	if task.Status != from {
		return false, nil
	}
	task.Status = to
	if completedAt != nil {
		task.CompletedAt = completedAt
	}
	task.UpdatedAt = time.Now()
	return true, nil
}

// UpdateAssignees заменяет набор исполнителей задачи
func (r *TaskRepository) UpdateAssignees(_ context.Context, taskID string, assignees []string) error {
	return r.mutate(taskID, func(task *domain.Task) {
		task.Assignees = append([]string(nil), assignees...)
	})
}

// UpdateTags заменяет теги задачи
func (r *TaskRepository) UpdateTags(_ context.Context, taskID string, tags []string) error {
	return r.mutate(taskID, func(task *domain.Task) {
		task.Tags = append([]string(nil), tags...)
	})
}

// UpdateSubtasks заменяет упорядоченный список подзадач
func (r *TaskRepository) UpdateSubtasks(_ context.Context, taskID string, subtasks []domain.Subtask) error {
	return r.mutate(taskID, func(task *domain.Task) {
		task.Subtasks = append([]domain.Subtask(nil), subtasks...)
	})
}

// UpdateAttachments заменяет вложения задачи
func (r *TaskRepository) UpdateAttachments(_ context.Context, taskID string, attachments []string) error {
	return r.mutate(taskID, func(task *domain.Task) {
		task.Attachments = append([]string(nil), attachments...)
	})
}

// AddActualHours атомарно увеличивает фактические часы задачи
func (r *TaskRepository) AddActualHours(_ context.Context, taskID string, hours float64) error {
	return r.mutate(taskID, func(task *domain.Task) {
		task.ActualHours += hours
	})
}

// LogTime добавляет запись о затраченном времени
func (r *TaskRepository) LogTime(_ context.Context, timeLog *repository.TimeLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[timeLog.TaskID]; !ok {
		return domain.NewNotFoundError("task", timeLog.TaskID)
	}
	if timeLog.ID == "" {
		timeLog.ID = uuid.New().String()
	}
	clone := *timeLog
	r.timeLogs[timeLog.TaskID] = append(r.timeLogs[timeLog.TaskID], &clone)
	return nil
}

// GetTimeLogs возвращает записи о затраченном времени задачи
func (r *TaskRepository) GetTimeLogs(_ context.Context, taskID string) ([]*repository.TimeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs := make([]*repository.TimeLog, 0, len(r.timeLogs[taskID]))
	for _, l := range r.timeLogs[taskID] {
		clone := *l
		logs = append(logs, &clone)
	}
	return logs, nil
}

// UnassignSprint снимает все задачи с указанного спринта
func (r *TaskRepository) UnassignSprint(_ context.Context, sprintID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks {
		if task.SprintID != nil && *task.SprintID == sprintID {
			task.SprintID = nil
			task.UpdatedAt = time.Now()
		}
	}
	return nil
}

// GetOverdueTasks возвращает незавершенные задачи с истекшим сроком
func (r *TaskRepository) GetOverdueTasks(_ context.Context, now time.Time) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var overdue []*domain.Task
	for _, task := range r.tasks {
		if task.IsOverdue(now) {
			overdue = append(overdue, cloneTask(task))
		}
	}
	return overdue, nil
}

func (r *TaskRepository) mutate(taskID string, fn func(*domain.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return domain.NewNotFoundError("task", taskID)
	}
	fn(task)
	task.UpdatedAt = time.Now()
	return nil
}

func (r *TaskRepository) match(filter repository.TaskFilter) []*domain.Task {
	var matched []*domain.Task
	for _, task := range r.tasks {
		if len(filter.IDs) > 0 && !containsString(filter.IDs, task.ID) {
			continue
		}
		if len(filter.ProjectIDs) > 0 && !containsString(filter.ProjectIDs, task.ProjectID) {
			continue
		}
		if filter.SprintID != nil && (task.SprintID == nil || *task.SprintID != *filter.SprintID) {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.AssigneeID != nil && !task.HasAssignee(*filter.AssigneeID) {
			continue
		}
		if filter.CreatedBy != nil && task.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.DueBefore != nil && (task.DueDate == nil || !task.DueDate.Before(*filter.DueBefore)) {
			continue
		}
		if filter.DueAfter != nil && (task.DueDate == nil || !task.DueDate.After(*filter.DueAfter)) {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(task.Tags, filter.Tags) {
			continue
		}
		if filter.SearchText != nil {
			text := strings.ToLower(*filter.SearchText)
			if !strings.Contains(strings.ToLower(task.Title), text) &&
				!strings.Contains(strings.ToLower(task.Description), text) {
				continue
			}
		}
		matched = append(matched, cloneTask(task))
	}
	return matched
}

func hasAnyTag(tags, wanted []string) bool {
	for _, tag := range wanted {
		if containsString(tags, tag) {
			return true
		}
	}
	return false
}

func cloneTask(task *domain.Task) *domain.Task {
	clone := *task
	clone.Assignees = append([]string(nil), task.Assignees...)
	clone.Tags = append([]string(nil), task.Tags...)
	clone.Subtasks = append([]domain.Subtask(nil), task.Subtasks...)
	clone.Attachments = append([]string(nil), task.Attachments...)
	return &clone
}

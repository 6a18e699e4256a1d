package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
	"github.com/yourusername/project-hub/pkg/database"
)

// TaskRepository реализует repository.TaskRepository поверх PostgreSQL.
// Исполнители, теги, подзадачи и вложения хранятся в отдельных таблицах.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository создает репозиторий задач
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create создает новую задачу вместе со связанными данными
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO tasks (id, title, description, project_id, sprint_id, status, priority,
			                   created_by, due_date, estimated_hours, actual_hours, completed_at,
			                   created_at, updated_at)
			VALUES (:id, :title, :description, :project_id, :sprint_id, :status, :priority,
			        :created_by, :due_date, :estimated_hours, :actual_hours, :completed_at,
			        :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, task); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		if err := replaceAssignees(ctx, tx, task.ID, task.Assignees); err != nil {
			return err
		}
		if err := replaceTags(ctx, tx, task.ID, task.Tags); err != nil {
			return err
		}
		if err := replaceSubtasks(ctx, tx, task.ID, task.Subtasks); err != nil {
			return err
		}
		return replaceAttachments(ctx, tx, task.ID, task.Attachments)
	})
}

// GetByID возвращает задачу по ID вместе со связанными данными
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	query := `SELECT * FROM tasks WHERE id = $1`
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("task", id)
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	if err := r.loadRelations(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update обновляет основные поля задачи. Статус этим методом не меняется,
// для статуса используется UpdateStatusIf.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = :title, description = :description, sprint_id = :sprint_id,
		    priority = :priority, due_date = :due_date, estimated_hours = :estimated_hours,
		    actual_hours = :actual_hours, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("task", task.ID))
}

// Delete удаляет задачу по ID. Связанные данные удаляются каскадно.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("task", id))
}

// List возвращает список задач с фильтрацией
func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	where, args := buildTaskWhere(filter)

	query := `SELECT * FROM tasks` + where
	query += orderClause(filter.OrderBy, filter.OrderDir, "created_at", map[string]bool{
		"created_at": true, "due_date": true, "priority": true, "status": true, "title": true,
	})
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	var tasks []*domain.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	for _, task := range tasks {
		if err := r.loadRelations(ctx, task); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// Count возвращает количество задач с фильтрацией
func (r *TaskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	where, args := buildTaskWhere(filter)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tasks`+where, args...); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// UpdateStatusIf выполняет условную запись статуса одним UPDATE.
// Условие WHERE по прежнему статусу исключает потерянные обновления
// при конкурентных переходах. COALESCE сохраняет прежний completed_at,
// когда переход не дает новой отметки завершения.
func (r *TaskRepository) UpdateStatusIf(ctx context.Context, taskID string, from, to domain.TaskStatus, completedAt *time.Time) (bool, error) {
	query := `
		UPDATE tasks
		SET status = $1, completed_at = COALESCE($2, completed_at), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, to, completedAt, taskID, from)
	if err != nil {
		return false, fmt.Errorf("update task status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Либо задачи нет, либо статус уже сменился. Различаем эти случаи.
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, taskID); err != nil {
			return false, fmt.Errorf("check task exists: %w", err)
		}
		if !exists {
			return false, domain.NewNotFoundError("task", taskID)
		}
		return false, nil
	}
	return true, nil
}

// UpdateAssignees заменяет набор исполнителей задачи
func (r *TaskRepository) UpdateAssignees(ctx context.Context, taskID string, assignees []string) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceAssignees(ctx, tx, taskID, assignees)
	})
}

// UpdateTags заменяет теги задачи
func (r *TaskRepository) UpdateTags(ctx context.Context, taskID string, tags []string) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceTags(ctx, tx, taskID, tags)
	})
}

// UpdateSubtasks заменяет упорядоченный список подзадач
func (r *TaskRepository) UpdateSubtasks(ctx context.Context, taskID string, subtasks []domain.Subtask) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceSubtasks(ctx, tx, taskID, subtasks)
	})
}

// UpdateAttachments заменяет вложения задачи
func (r *TaskRepository) UpdateAttachments(ctx context.Context, taskID string, attachments []string) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceAttachments(ctx, tx, taskID, attachments)
	})
}

// AddActualHours атомарно увеличивает фактические часы задачи
func (r *TaskRepository) AddActualHours(ctx context.Context, taskID string, hours float64) error {
	query := `UPDATE tasks SET actual_hours = actual_hours + $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, hours, taskID)
	if err != nil {
		return fmt.Errorf("add actual hours: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("task", taskID))
}

// LogTime добавляет запись о затраченном времени
func (r *TaskRepository) LogTime(ctx context.Context, timeLog *repository.TimeLog) error {
	query := `
		INSERT INTO task_time_logs (id, task_id, user_id, hours, description, logged_at)
		VALUES (:id, :task_id, :user_id, :hours, :description, :logged_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, timeLog); err != nil {
		return fmt.Errorf("insert time log: %w", err)
	}
	return nil
}

// GetTimeLogs возвращает записи о затраченном времени задачи
func (r *TaskRepository) GetTimeLogs(ctx context.Context, taskID string) ([]*repository.TimeLog, error) {
	var logs []*repository.TimeLog
	query := `SELECT * FROM task_time_logs WHERE task_id = $1 ORDER BY logged_at`
	if err := r.db.SelectContext(ctx, &logs, query, taskID); err != nil {
		return nil, fmt.Errorf("get time logs: %w", err)
	}
	return logs, nil
}

// UnassignSprint снимает все задачи с указанного спринта
func (r *TaskRepository) UnassignSprint(ctx context.Context, sprintID string) error {
	query := `UPDATE tasks SET sprint_id = NULL, updated_at = NOW() WHERE sprint_id = $1`
	if _, err := r.db.ExecContext(ctx, query, sprintID); err != nil {
		return fmt.Errorf("unassign sprint: %w", err)
	}
	return nil
}

// GetOverdueTasks возвращает незавершенные задачи с истекшим сроком
func (r *TaskRepository) GetOverdueTasks(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	query := `SELECT * FROM tasks WHERE due_date < $1 AND status <> $2 ORDER BY due_date`
	if err := r.db.SelectContext(ctx, &tasks, query, now, domain.TaskStatusDone); err != nil {
		return nil, fmt.Errorf("get overdue tasks: %w", err)
	}

	for _, task := range tasks {
		if err := r.loadRelations(ctx, task); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *TaskRepository) loadRelations(ctx context.Context, task *domain.Task) error {
	if err := r.db.SelectContext(ctx, &task.Assignees,
		`SELECT user_id FROM task_assignees WHERE task_id = $1 ORDER BY user_id`, task.ID); err != nil {
		return fmt.Errorf("load task assignees: %w", err)
	}
	if err := r.db.SelectContext(ctx, &task.Tags,
		`SELECT tag FROM task_tags WHERE task_id = $1 ORDER BY tag`, task.ID); err != nil {
		return fmt.Errorf("load task tags: %w", err)
	}
	if err := r.db.SelectContext(ctx, &task.Subtasks,
		`SELECT title, is_completed, completed_at FROM task_subtasks WHERE task_id = $1 ORDER BY position`, task.ID); err != nil {
		return fmt.Errorf("load task subtasks: %w", err)
	}
	if err := r.db.SelectContext(ctx, &task.Attachments,
		`SELECT url FROM task_attachments WHERE task_id = $1 ORDER BY url`, task.ID); err != nil {
		return fmt.Errorf("load task attachments: %w", err)
	}
	return nil
}

func replaceAssignees(ctx context.Context, tx *sqlx.Tx, taskID string, assignees []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("delete task assignees: %w", err)
	}
	for _, userID := range assignees {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2)`, taskID, userID); err != nil {
			return fmt.Errorf("insert task assignee: %w", err)
		}
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sqlx.Tx, taskID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("delete task tags: %w", err)
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_tags (task_id, tag) VALUES ($1, $2)`, taskID, tag); err != nil {
			return fmt.Errorf("insert task tag: %w", err)
		}
	}
	return nil
}

func replaceSubtasks(ctx context.Context, tx *sqlx.Tx, taskID string, subtasks []domain.Subtask) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_subtasks WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("delete task subtasks: %w", err)
	}
	for position, subtask := range subtasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_subtasks (task_id, position, title, is_completed, completed_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			taskID, position, subtask.Title, subtask.IsCompleted, subtask.CompletedAt); err != nil {
			return fmt.Errorf("insert task subtask: %w", err)
		}
	}
	return nil
}

func replaceAttachments(ctx context.Context, tx *sqlx.Tx, taskID string, attachments []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_attachments WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("delete task attachments: %w", err)
	}
	for _, url := range attachments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_attachments (task_id, url) VALUES ($1, $2)`, taskID, url); err != nil {
			return fmt.Errorf("insert task attachment: %w", err)
		}
	}
	return nil
}

func buildTaskWhere(filter repository.TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if len(filter.IDs) > 0 {
		args = append(args, pqArray(filter.IDs))
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if len(filter.ProjectIDs) > 0 {
		args = append(args, pqArray(filter.ProjectIDs))
		conditions = append(conditions, fmt.Sprintf("project_id = ANY($%d)", len(args)))
	}
	if filter.SprintID != nil {
		args = append(args, *filter.SprintID)
		conditions = append(conditions, fmt.Sprintf("sprint_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		conditions = append(conditions, fmt.Sprintf(
			"id IN (SELECT task_id FROM task_assignees WHERE user_id = $%d)", len(args)))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		conditions = append(conditions, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		conditions = append(conditions, fmt.Sprintf("due_date < $%d", len(args)))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		conditions = append(conditions, fmt.Sprintf("due_date > $%d", len(args)))
	}
	if len(filter.Tags) > 0 {
		args = append(args, pqArray(filter.Tags))
		conditions = append(conditions, fmt.Sprintf(
			"id IN (SELECT task_id FROM task_tags WHERE tag = ANY($%d))", len(args)))
	}
	if filter.SearchText != nil {
		args = append(args, "%"+*filter.SearchText+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

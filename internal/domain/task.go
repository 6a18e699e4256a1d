package domain

import (
	"time"
)

// TaskStatus определяет статус задачи.
// Строковые значения совпадают с тем, что хранится и передается по API.
type TaskStatus string

const (
	// TaskStatusTodo - задача в очереди
	TaskStatusTodo TaskStatus = "To Do"
	// TaskStatusInProgress - задача в работе
	TaskStatusInProgress TaskStatus = "In Progress"
	// TaskStatusReview - задача на проверке
	TaskStatusReview TaskStatus = "Review"
	// TaskStatusDone - завершенная задача
	TaskStatusDone TaskStatus = "Done"
)

// IsValid проверяет, что статус входит в набор допустимых значений
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority определяет приоритет задачи
type TaskPriority string

const (
	// TaskPriorityLow - низкий приоритет
	TaskPriorityLow TaskPriority = "low"
	// TaskPriorityMedium - средний приоритет
	TaskPriorityMedium TaskPriority = "medium"
	// TaskPriorityHigh - высокий приоритет
	TaskPriorityHigh TaskPriority = "high"
	// TaskPriorityUrgent - срочный приоритет
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Subtask представляет подзадачу внутри задачи
type Subtask struct {
	Title       string     `json:"title" db:"title"`
	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Task представляет модель задачи
type Task struct {
	ID             string       `json:"id" db:"id"`
	Title          string       `json:"title" db:"title"`
	Description    string       `json:"description" db:"description"`
	ProjectID      string       `json:"project_id" db:"project_id"`
	SprintID       *string      `json:"sprint_id,omitempty" db:"sprint_id"`
	Status         TaskStatus   `json:"status" db:"status"`
	Priority       TaskPriority `json:"priority" db:"priority"`
	Assignees      []string     `json:"assignees,omitempty" db:"-"` // Исполнители хранятся в отдельной таблице
	CreatedBy      string       `json:"created_by" db:"created_by"`
	DueDate        *time.Time   `json:"due_date,omitempty" db:"due_date"`
	EstimatedHours float64      `json:"estimated_hours" db:"estimated_hours"`
	ActualHours    float64      `json:"actual_hours" db:"actual_hours"`
	Tags           []string     `json:"tags,omitempty" db:"-"`
	Subtasks       []Subtask    `json:"subtasks,omitempty" db:"-"`
	Attachments    []string     `json:"attachments,omitempty" db:"-"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// HasAssignee проверяет, назначена ли задача на пользователя
func (t *Task) HasAssignee(userID string) bool {
	for _, id := range t.Assignees {
		if id == userID {
			return true
		}
	}
	return false
}

// IsDone проверяет, завершена ли задача
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// IsOverdue проверяет, просрочена ли задача
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.IsDone() {
		return false
	}
	return now.After(*t.DueDate)
}

// TaskCreateRequest представляет данные для создания задачи.
// Переданный статус игнорируется: новая задача всегда создается в "To Do".
type TaskCreateRequest struct {
	Title          string       `json:"title" validate:"required,min=3,max=200"`
	Description    string       `json:"description"`
	ProjectID      string       `json:"project_id" validate:"required,uuid"`
	SprintID       string       `json:"sprint_id" validate:"required,uuid"`
	Status         TaskStatus   `json:"status,omitempty"`
	Priority       TaskPriority `json:"priority" validate:"required,oneof=low medium high urgent"`
	Assignees      []string     `json:"assignees,omitempty" validate:"omitempty,dive,uuid"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	EstimatedHours float64      `json:"estimated_hours" validate:"gte=0"`
	Tags           []string     `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Subtasks       []Subtask    `json:"subtasks,omitempty"`
}

// TaskUpdateRequest представляет данные для обновления задачи.
// Набор полей закрытый: проверка прав сравнивает заполненные поля
// с разрешенным для роли списком по именам из SetFields.
type TaskUpdateRequest struct {
	Title          *string       `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description    *string       `json:"description,omitempty"`
	SprintID       *string       `json:"sprint_id,omitempty" validate:"omitempty,uuid"`
	Status         *TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof='To Do' 'In Progress' Review Done"`
	Priority       *TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Assignees      *[]string     `json:"assignees,omitempty" validate:"omitempty,dive,uuid"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	EstimatedHours *float64      `json:"estimated_hours,omitempty" validate:"omitempty,gte=0"`
	ActualHours    *float64      `json:"actual_hours,omitempty" validate:"omitempty,gte=0"`
	Tags           *[]string     `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Subtasks       *[]Subtask    `json:"subtasks,omitempty"`
	Attachments    *[]string     `json:"attachments,omitempty"`
}

// Имена полей TaskUpdateRequest, используемые при проверке прав
const (
	TaskFieldTitle          = "title"
	TaskFieldDescription    = "description"
	TaskFieldSprint         = "sprint_id"
	TaskFieldStatus         = "status"
	TaskFieldPriority       = "priority"
	TaskFieldAssignees      = "assignees"
	TaskFieldDueDate        = "due_date"
	TaskFieldEstimatedHours = "estimated_hours"
	TaskFieldActualHours    = "actual_hours"
	TaskFieldTags           = "tags"
	TaskFieldSubtasks       = "subtasks"
	TaskFieldAttachments    = "attachments"
)

// SetFields возвращает имена всех заполненных полей запроса
func (r *TaskUpdateRequest) SetFields() []string {
	var fields []string
	if r.Title != nil {
		fields = append(fields, TaskFieldTitle)
	}
	if r.Description != nil {
		fields = append(fields, TaskFieldDescription)
	}
	if r.SprintID != nil {
		fields = append(fields, TaskFieldSprint)
	}
	if r.Status != nil {
		fields = append(fields, TaskFieldStatus)
	}
	if r.Priority != nil {
		fields = append(fields, TaskFieldPriority)
	}
	if r.Assignees != nil {
		fields = append(fields, TaskFieldAssignees)
	}
	if r.DueDate != nil {
		fields = append(fields, TaskFieldDueDate)
	}
	if r.EstimatedHours != nil {
		fields = append(fields, TaskFieldEstimatedHours)
	}
	if r.ActualHours != nil {
		fields = append(fields, TaskFieldActualHours)
	}
	if r.Tags != nil {
		fields = append(fields, TaskFieldTags)
	}
	if r.Subtasks != nil {
		fields = append(fields, TaskFieldSubtasks)
	}
	if r.Attachments != nil {
		fields = append(fields, TaskFieldAttachments)
	}
	return fields
}

// TransitionStatusRequest представляет запрос на смену статуса задачи
type TransitionStatusRequest struct {
	Status TaskStatus `json:"status" validate:"required,oneof='To Do' 'In Progress' Review Done"`
}

// LogTimeRequest представляет запрос на добавление затраченного времени
type LogTimeRequest struct {
	Hours       float64 `json:"hours" validate:"required,gt=0"`
	Description string  `json:"description,omitempty"`
}

// TaskResponse представляет данные задачи для API-ответов
type TaskResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	ProjectID      string            `json:"project_id"`
	SprintID       *string           `json:"sprint_id,omitempty"`
	Status         TaskStatus        `json:"status"`
	Priority       TaskPriority      `json:"priority"`
	Assignees      []UserBrief       `json:"assignees,omitempty"`
	CreatedBy      string            `json:"created_by"`
	Creator        *UserBrief        `json:"creator,omitempty"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	EstimatedHours float64           `json:"estimated_hours"`
	ActualHours    float64           `json:"actual_hours"`
	Tags           []string          `json:"tags,omitempty"`
	Subtasks       []Subtask         `json:"subtasks,omitempty"`
	Attachments    []string          `json:"attachments,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Comments       []CommentResponse `json:"comments,omitempty"`
}

// ToResponse преобразует Task в TaskResponse
func (t *Task) ToResponse() TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		ProjectID:      t.ProjectID,
		SprintID:       t.SprintID,
		Status:         t.Status,
		Priority:       t.Priority,
		CreatedBy:      t.CreatedBy,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		Tags:           t.Tags,
		Subtasks:       t.Subtasks,
		Attachments:    t.Attachments,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// TaskFilterOptions представляет параметры для фильтрации задач
type TaskFilterOptions struct {
	ProjectID  *string       `json:"project_id,omitempty"`
	SprintID   *string       `json:"sprint_id,omitempty"`
	Status     *TaskStatus   `json:"status,omitempty"`
	Priority   *TaskPriority `json:"priority,omitempty"`
	AssigneeID *string       `json:"assignee_id,omitempty"`
	CreatedBy  *string       `json:"created_by,omitempty"`
	DueBefore  *time.Time    `json:"due_before,omitempty"`
	DueAfter   *time.Time    `json:"due_after,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	SearchText *string       `json:"search_text,omitempty"`
	SortBy     *string       `json:"sort_by,omitempty"`
	SortOrder  *string       `json:"sort_order,omitempty"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

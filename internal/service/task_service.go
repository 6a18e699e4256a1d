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

// TaskService инкапсулирует бизнес-логику работы с задачами:
// жизненный цикл статусов, проверку прав и учет времени
type TaskService struct {
	repo        repository.TaskRepository
	projectRepo repository.ProjectRepository
	sprintRepo  repository.SprintRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	authorizer  *Authorizer
	lifecycle   *Lifecycle
	cache       EntityCache
	producer    EventPublisher
	logger      logger.Logger
}

// NewTaskService создает сервис задач. Кэш и продюсер событий
// могут быть nil, тогда соответствующие шаги пропускаются.
func NewTaskService(
	repo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	sprintRepo repository.SprintRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	cache EntityCache,
	producer EventPublisher,
	log logger.Logger,
) *TaskService {
	return &TaskService{
		repo:        repo,
		projectRepo: projectRepo,
		sprintRepo:  sprintRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		authorizer:  NewAuthorizer(),
		lifecycle:   NewLifecycle(),
		cache:       cache,
		producer:    producer,
		logger:      log,
	}
}

// Create создает новую задачу. Статус из запроса игнорируется:
// каждая задача начинает жизнь в "To Do".
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, req domain.TaskCreateRequest) (*domain.Task, error) {
	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManagerOrAbove() && !project.HasTeamMember(actor.ID) {
		return nil, domain.NewForbiddenError(domain.DenyReasonNotTeamMember)
	}

	sprint, err := s.sprintRepo.GetByID(ctx, req.SprintID)
	if err != nil {
		return nil, err
	}
	if sprint.ProjectID != req.ProjectID {
		return nil, fmt.Errorf("%w: sprint belongs to another project", domain.ErrValidation)
	}

	now := time.Now()
	task := &domain.Task{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		SprintID:       &req.SprintID,
		Status:         s.lifecycle.InitialStatus(),
		Priority:       req.Priority,
		Assignees:      req.Assignees,
		CreatedBy:      actor.ID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
		Subtasks:       req.Subtasks,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.cacheTask(ctx, task)
	s.invalidateStats(ctx, task.ProjectID)
	s.publishTaskEvent(ctx, messaging.EventTypeTaskCreated, task, actor, nil)

	s.logger.Info("task created", "task_id", task.ID, "project_id", task.ProjectID, "actor_id", actor.ID)
	return task, nil
}

// GetByID возвращает задачу. Участник с ролью member видит
// только задачи, в которых он исполнитель.
func (s *TaskService) GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	task := s.cachedTask(ctx, id)
	if task == nil {
		var err error
		task, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		s.cacheTask(ctx, task)
	}

	if d := s.authorizer.CanViewTask(actor, task); !d.Allowed {
		return nil, d.Err()
	}
	return task, nil
}

// Update обновляет задачу. Для роли member набор изменяемых полей
// сверяется с разрешенным списком целиком: одно запрещенное поле
// отклоняет весь запрос. Смена статуса через Update проходит ту же
// проверку жизненного цикла, что и прямой переход; статус, равный
// текущему, не считается переходом.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id string, req domain.TaskUpdateRequest) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := req.SetFields()
	if err := s.authorizer.CanUpdateTask(actor, task, fields); err != nil {
		return nil, err
	}

	// Все проверки, способные отклонить запрос, выполняются до первой
	// записи: отклоненное обновление не оставляет частичных изменений
	if req.SprintID != nil {
		sprint, err := s.sprintRepo.GetByID(ctx, *req.SprintID)
		if err != nil {
			return nil, err
		}
		if sprint.ProjectID != task.ProjectID {
			return nil, fmt.Errorf("%w: sprint belongs to another project", domain.ErrValidation)
		}
	}

	changes := make(map[string]interface{}, len(fields))
	now := time.Now()

	if req.Status != nil && *req.Status != task.Status {
		if err := s.transition(ctx, actor, task, *req.Status, now); err != nil {
			return nil, err
		}
		changes[domain.TaskFieldStatus] = *req.Status
	}

	if req.Title != nil {
		task.Title = *req.Title
		changes[domain.TaskFieldTitle] = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
		changes[domain.TaskFieldDescription] = *req.Description
	}
	if req.SprintID != nil {
		task.SprintID = req.SprintID
		changes[domain.TaskFieldSprint] = *req.SprintID
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
		changes[domain.TaskFieldPriority] = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
		changes[domain.TaskFieldDueDate] = *req.DueDate
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
		changes[domain.TaskFieldEstimatedHours] = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		task.ActualHours = *req.ActualHours
		changes[domain.TaskFieldActualHours] = *req.ActualHours
	}

	task.UpdatedAt = now
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if req.Assignees != nil {
		task.Assignees = *req.Assignees
		if err := s.repo.UpdateAssignees(ctx, id, *req.Assignees); err != nil {
			return nil, fmt.Errorf("update assignees: %w", err)
		}
		changes[domain.TaskFieldAssignees] = *req.Assignees
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
		if err := s.repo.UpdateTags(ctx, id, *req.Tags); err != nil {
			return nil, fmt.Errorf("update tags: %w", err)
		}
		changes[domain.TaskFieldTags] = *req.Tags
	}
	if req.Subtasks != nil {
		task.Subtasks = *req.Subtasks
		if err := s.repo.UpdateSubtasks(ctx, id, *req.Subtasks); err != nil {
			return nil, fmt.Errorf("update subtasks: %w", err)
		}
		changes[domain.TaskFieldSubtasks] = len(*req.Subtasks)
	}
	if req.Attachments != nil {
		task.Attachments = *req.Attachments
		if err := s.repo.UpdateAttachments(ctx, id, *req.Attachments); err != nil {
			return nil, fmt.Errorf("update attachments: %w", err)
		}
		changes[domain.TaskFieldAttachments] = *req.Attachments
	}

	s.dropCachedTask(ctx, id)
	s.invalidateStats(ctx, task.ProjectID)
	s.publishTaskEvent(ctx, messaging.EventTypeTaskUpdated, task, actor, changes)

	s.logger.Info("task updated", "task_id", id, "actor_id", actor.ID)
	return task, nil
}

// TransitionStatus переводит задачу в новый статус. Переход
// проверяется таблицей жизненного цикла и ролевым ограничением
// на ребре в Done, запись выполняется условно по прежнему статусу.
func (s *TaskService) TransitionStatus(ctx context.Context, actor domain.Actor, id string, to domain.TaskStatus) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsManagerOrAbove() && !task.HasAssignee(actor.ID) {
		return nil, domain.NewForbiddenError(domain.DenyReasonNotAssignee)
	}

	now := time.Now()
	if err := s.transition(ctx, actor, task, to, now); err != nil {
		return nil, err
	}

	s.dropCachedTask(ctx, id)
	s.invalidateStats(ctx, task.ProjectID)
	s.publishTaskEvent(ctx, messaging.EventTypeTaskTransitioned, task, actor, map[string]interface{}{
		domain.TaskFieldStatus: to,
	})

	s.logger.Info("task transitioned", "task_id", id, "status", string(to), "actor_id", actor.ID)
	return task, nil
}

// transition валидирует переход и записывает его условно по прежнему
// статусу. Если статус успел измениться конкурентно, возвращается конфликт.
func (s *TaskService) transition(ctx context.Context, actor domain.Actor, task *domain.Task, to domain.TaskStatus, now time.Time) error {
	from := task.Status
	if err := s.lifecycle.Validate(actor, from, to); err != nil {
		return err
	}

	ok, err := s.repo.UpdateStatusIf(ctx, task.ID, from, to, s.lifecycle.CompletionTimestamp(to, now))
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: task status changed concurrently", domain.ErrConflict)
	}

	s.lifecycle.Apply(task, to, now)
	return nil
}

// LogTime списывает время на задачу: добавляет запись в журнал
// и атомарно увеличивает фактические часы. Списать можно только
// положительное количество часов.
func (s *TaskService) LogTime(ctx context.Context, actor domain.Actor, id string, req domain.LogTimeRequest) (*domain.Task, error) {
	if req.Hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", domain.ErrValidation)
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := s.authorizer.CanLogTime(actor, task); !d.Allowed {
		return nil, d.Err()
	}

	timeLog := &repository.TimeLog{
		ID:          uuid.New().String(),
		TaskID:      id,
		UserID:      actor.ID,
		Hours:       req.Hours,
		Description: req.Description,
		LoggedAt:    time.Now(),
	}
	if err := s.repo.LogTime(ctx, timeLog); err != nil {
		return nil, fmt.Errorf("log time: %w", err)
	}
	if err := s.repo.AddActualHours(ctx, id, req.Hours); err != nil {
		return nil, fmt.Errorf("add actual hours: %w", err)
	}
	task.ActualHours += req.Hours

	s.dropCachedTask(ctx, id)
	s.invalidateStats(ctx, task.ProjectID)
	s.publishTaskEvent(ctx, messaging.EventTypeTaskTimeLogged, task, actor, map[string]interface{}{
		"hours": req.Hours,
	})

	s.logger.Info("time logged", "task_id", id, "hours", req.Hours, "actor_id", actor.ID)
	return task, nil
}

// GetTimeLogs возвращает журнал затраченного времени задачи
func (s *TaskService) GetTimeLogs(ctx context.Context, actor domain.Actor, id string) ([]*repository.TimeLog, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.CanViewTask(actor, task); !d.Allowed {
		return nil, d.Err()
	}
	return s.repo.GetTimeLogs(ctx, id)
}

// Delete удаляет задачу вместе с комментариями
func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d := s.authorizer.CanDeleteTask(actor); !d.Allowed {
		return d.Err()
	}

	if err := s.commentRepo.DeleteByTask(ctx, id); err != nil {
		return fmt.Errorf("delete task comments: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.dropCachedTask(ctx, id)
	s.invalidateStats(ctx, task.ProjectID)

	s.logger.Info("task deleted", "task_id", id, "actor_id", actor.ID)
	return nil
}

// List возвращает страницу задач. Для роли member список
// ограничен задачами, где он исполнитель.
func (s *TaskService) List(ctx context.Context, actor domain.Actor, opts domain.TaskFilterOptions) ([]*domain.Task, int, error) {
	filter := repository.TaskFilter{
		SprintID:   opts.SprintID,
		Status:     opts.Status,
		Priority:   opts.Priority,
		CreatedBy:  opts.CreatedBy,
		DueBefore:  opts.DueBefore,
		DueAfter:   opts.DueAfter,
		Tags:       opts.Tags,
		SearchText: opts.SearchText,
		OrderBy:    opts.SortBy,
		OrderDir:   opts.SortOrder,
	}
	if opts.ProjectID != nil {
		filter.ProjectIDs = []string{*opts.ProjectID}
	}
	if actor.IsManagerOrAbove() {
		filter.AssigneeID = opts.AssigneeID
	} else {
		assigneeID := actor.ID
		filter.AssigneeID = &assigneeID
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}
	return tasks, total, nil
}

// BuildResponse собирает ответ API c краткими карточками
// исполнителей и автора, при необходимости с комментариями
func (s *TaskService) BuildResponse(ctx context.Context, task *domain.Task, withComments bool) (domain.TaskResponse, error) {
	resp := task.ToResponse()

	if len(task.Assignees) > 0 {
		users, err := s.userRepo.List(ctx, repository.UserFilter{IDs: task.Assignees})
		if err != nil {
			return resp, fmt.Errorf("load assignees: %w", err)
		}
		for _, user := range users {
			resp.Assignees = append(resp.Assignees, user.ToBrief())
		}
	}

	if creator, err := s.userRepo.GetByID(ctx, task.CreatedBy); err == nil {
		brief := creator.ToBrief()
		resp.Creator = &brief
	}

	if withComments {
		comments, err := s.commentRepo.ListByTask(ctx, task.ID)
		if err != nil {
			return resp, fmt.Errorf("load comments: %w", err)
		}
		for _, comment := range comments {
			var brief domain.UserBrief
			if author, err := s.userRepo.GetByID(ctx, comment.UserID); err == nil {
				brief = author.ToBrief()
			}
			resp.Comments = append(resp.Comments, comment.ToResponse(brief))
		}
	}
	return resp, nil
}

func (s *TaskService) cachedTask(ctx context.Context, id string) *domain.Task {
	if s.cache == nil {
		return nil
	}
	task, err := s.cache.GetTask(ctx, id)
	if err != nil {
		return nil
	}
	return task
}

func (s *TaskService) cacheTask(ctx context.Context, task *domain.Task) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetTask(ctx, task); err != nil {
		s.logger.Warn("cache task", "task_id", task.ID, "error", err.Error())
	}
}

func (s *TaskService) dropCachedTask(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteTask(ctx, id); err != nil {
		s.logger.Warn("drop cached task", "task_id", id, "error", err.Error())
	}
}

func (s *TaskService) invalidateStats(ctx context.Context, projectID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProjectStats(ctx, projectID); err != nil {
		s.logger.Warn("invalidate project stats", "project_id", projectID, "error", err.Error())
	}
}

func (s *TaskService) publishTaskEvent(ctx context.Context, eventType string, task *domain.Task, actor domain.Actor, changes map[string]interface{}) {
	if s.producer == nil {
		return
	}
	event := &messaging.TaskEvent{
		ID:        task.ID,
		Title:     task.Title,
		ProjectID: task.ProjectID,
		SprintID:  task.SprintID,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
		Assignees: task.Assignees,
		ActorID:   actor.ID,
		DueDate:   task.DueDate,
		UpdatedAt: task.UpdatedAt,
		Changes:   changes,
	}
	if err := s.producer.PublishTaskEvent(ctx, eventType, event); err != nil {
		s.logger.Error("publish task event", err, "task_id", task.ID, "event_type", eventType)
	}
}

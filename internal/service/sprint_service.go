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

// SprintService инкапсулирует бизнес-логику работы со спринтами
type SprintService struct {
	repo        repository.SprintRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	authorizer  *Authorizer
	cache       EntityCache
	producer    EventPublisher
	logger      logger.Logger
}

// NewSprintService создает сервис спринтов
func NewSprintService(
	repo repository.SprintRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	cache EntityCache,
	producer EventPublisher,
	log logger.Logger,
) *SprintService {
	return &SprintService{
		repo:        repo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		authorizer:  NewAuthorizer(),
		cache:       cache,
		producer:    producer,
		logger:      log,
	}
}

// Create создает новый спринт. Номер спринта назначается
// автоматически как следующий по порядку в проекте.
func (s *SprintService) Create(ctx context.Context, actor domain.Actor, req domain.SprintCreateRequest) (*domain.Sprint, error) {
	if d := s.authorizer.CanManageSprint(actor); !d.Allowed {
		return nil, d.Err()
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: sprint end date before start date", domain.ErrValidation)
	}

	now := time.Now()
	sprint := &domain.Sprint{
		ID:        uuid.New().String(),
		Title:     req.Title,
		ProjectID: req.ProjectID,
		Goal:      req.Goal,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, sprint); err != nil {
		return nil, fmt.Errorf("create sprint: %w", err)
	}

	s.cacheSprint(ctx, sprint)
	s.publishSprintEvent(ctx, messaging.EventTypeSprintCreated, sprint, actor)

	s.logger.Info("sprint created", "sprint_id", sprint.ID, "project_id", sprint.ProjectID, "number", sprint.SprintNumber)
	return sprint, nil
}

// GetByID возвращает спринт по ID
func (s *SprintService) GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.Sprint, error) {
	sprint := s.cachedSprint(ctx, id)
	if sprint == nil {
		var err error
		sprint, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		s.cacheSprint(ctx, sprint)
	}

	if !actor.IsManagerOrAbove() {
		project, err := s.projectRepo.GetByID(ctx, sprint.ProjectID)
		if err != nil {
			return nil, err
		}
		if d := s.authorizer.CanViewProject(actor, project); !d.Allowed {
			return nil, d.Err()
		}
	}
	return sprint, nil
}

// Update обновляет данные спринта. Номер спринта не меняется.
func (s *SprintService) Update(ctx context.Context, actor domain.Actor, id string, req domain.SprintUpdateRequest) (*domain.Sprint, error) {
	if d := s.authorizer.CanManageSprint(actor); !d.Allowed {
		return nil, d.Err()
	}

	sprint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		sprint.Title = *req.Title
	}
	if req.Goal != nil {
		sprint.Goal = req.Goal
	}
	if req.StartDate != nil {
		sprint.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		sprint.EndDate = req.EndDate
	}
	if sprint.StartDate != nil && sprint.EndDate != nil && sprint.EndDate.Before(*sprint.StartDate) {
		return nil, fmt.Errorf("%w: sprint end date before start date", domain.ErrValidation)
	}

	sprint.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, sprint); err != nil {
		return nil, fmt.Errorf("update sprint: %w", err)
	}

	s.dropCachedSprint(ctx, id)

	s.logger.Info("sprint updated", "sprint_id", id, "actor_id", actor.ID)
	return sprint, nil
}

// Delete удаляет спринт. Задачи спринта не удаляются,
// а снимаются со спринта и возвращаются в бэклог проекта.
func (s *SprintService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if d := s.authorizer.CanManageSprint(actor); !d.Allowed {
		return d.Err()
	}

	sprint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.UnassignSprint(ctx, id); err != nil {
		return fmt.Errorf("unassign sprint tasks: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sprint: %w", err)
	}

	s.dropCachedSprint(ctx, id)
	s.publishSprintEvent(ctx, messaging.EventTypeSprintDeleted, sprint, actor)

	s.logger.Info("sprint deleted", "sprint_id", id, "actor_id", actor.ID)
	return nil
}

// ListByProject возвращает спринты проекта в порядке номеров
func (s *SprintService) ListByProject(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.Sprint, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.CanViewProject(actor, project); !d.Allowed {
		return nil, d.Err()
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *SprintService) cachedSprint(ctx context.Context, id string) *domain.Sprint {
	if s.cache == nil {
		return nil
	}
	sprint, err := s.cache.GetSprint(ctx, id)
	if err != nil {
		return nil
	}
	return sprint
}

func (s *SprintService) cacheSprint(ctx context.Context, sprint *domain.Sprint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSprint(ctx, sprint); err != nil {
		s.logger.Warn("cache sprint", "sprint_id", sprint.ID, "error", err.Error())
	}
}

func (s *SprintService) dropCachedSprint(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteSprint(ctx, id); err != nil {
		s.logger.Warn("drop cached sprint", "sprint_id", id, "error", err.Error())
	}
}

func (s *SprintService) publishSprintEvent(ctx context.Context, eventType string, sprint *domain.Sprint, actor domain.Actor) {
	if s.producer == nil {
		return
	}
	event := &messaging.SprintEvent{
		ID:           sprint.ID,
		Title:        sprint.Title,
		SprintNumber: sprint.SprintNumber,
		ProjectID:    sprint.ProjectID,
		ActorID:      actor.ID,
		OccurredAt:   time.Now(),
	}
	if err := s.producer.PublishSprintEvent(ctx, eventType, event); err != nil {
		s.logger.Error("publish sprint event", err, "sprint_id", sprint.ID, "event_type", eventType)
	}
}

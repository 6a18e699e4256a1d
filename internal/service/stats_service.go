package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
	"github.com/yourusername/project-hub/pkg/logger"
)

// StatsService считает производную статистику по задачам.
// Показатели нигде не сохраняются как источник истины: каждый
// запрос пересчитывает их по текущему набору задач, кэш хранит
// только короткоживущие копии.
type StatsService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	sprintRepo  repository.SprintRepository
	authorizer  *Authorizer
	cache       EntityCache
	logger      logger.Logger
	now         func() time.Time
}

// NewStatsService создает сервис статистики
func NewStatsService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	sprintRepo repository.SprintRepository,
	cache EntityCache,
	log logger.Logger,
) *StatsService {
	return &StatsService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		sprintRepo:  sprintRepo,
		authorizer:  NewAuthorizer(),
		cache:       cache,
		logger:      log,
		now:         time.Now,
	}
}

// ComputeProjectStats возвращает статистику проекта
func (s *StatsService) ComputeProjectStats(ctx context.Context, actor domain.Actor, projectID string) (*domain.ProjectStats, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.CanViewProject(actor, project); !d.Allowed {
		return nil, d.Err()
	}

	if s.cache != nil {
		if stats, err := s.cache.GetProjectStats(ctx, projectID); err == nil {
			return stats, nil
		}
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{ProjectIDs: []string{projectID}})
	if err != nil {
		return nil, fmt.Errorf("load project tasks: %w", err)
	}

	stats := &domain.ProjectStats{
		ProjectID:     projectID,
		TaskBreakdown: domain.BuildTaskBreakdown(tasks, s.now()),
	}

	if s.cache != nil {
		if err := s.cache.SetProjectStats(ctx, projectID, stats); err != nil {
			s.logger.Warn("cache project stats", "project_id", projectID, "error", err.Error())
		}
	}
	return stats, nil
}

// ComputeSprintStats возвращает статистику спринта, включая скорость
// и наивный прогноз оставшихся дней работы
func (s *StatsService) ComputeSprintStats(ctx context.Context, actor domain.Actor, sprintID string) (*domain.SprintStats, error) {
	sprint, err := s.sprintRepo.GetByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, sprint.ProjectID)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.CanViewProject(actor, project); !d.Allowed {
		return nil, d.Err()
	}

	if s.cache != nil {
		if stats, err := s.cache.GetSprintStats(ctx, sprintID); err == nil {
			return stats, nil
		}
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{SprintID: &sprintID})
	if err != nil {
		return nil, fmt.Errorf("load sprint tasks: %w", err)
	}

	now := s.now()
	velocity := domain.Velocity(tasks, sprint.ElapsedDays(now))
	stats := &domain.SprintStats{
		SprintID:                sprintID,
		TaskBreakdown:           domain.BuildTaskBreakdown(tasks, now),
		Velocity:                velocity,
		ProjectedCompletionDays: domain.ProjectedCompletionDays(tasks, velocity),
	}

	if s.cache != nil {
		if err := s.cache.SetSprintStats(ctx, sprintID, stats); err != nil {
			s.logger.Warn("cache sprint stats", "sprint_id", sprintID, "error", err.Error())
		}
	}
	return stats, nil
}

// ComputeDashboardStats возвращает сводку для дашборда.
// Для роли member все показатели ограничены его проектами и задачами,
// менеджеры и администраторы видят всю систему. Источники данных
// опрашиваются параллельно.
func (s *StatsService) ComputeDashboardStats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	taskFilter := repository.TaskFilter{}
	projectFilter := repository.ProjectFilter{}
	if !actor.IsManagerOrAbove() {
		assigneeID := actor.ID
		taskFilter.AssigneeID = &assigneeID
		memberID := actor.ID
		projectFilter.MemberID = &memberID
	}

	var (
		tasks    []*domain.Task
		projects []*domain.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.taskRepo.List(gctx, taskFilter)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		projects, err = s.projectRepo.List(gctx, projectFilter)
		if err != nil {
			return fmt.Errorf("load projects: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sprintCount := 0
	for _, project := range projects {
		count, err := s.sprintRepo.CountByProject(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("count sprints: %w", err)
		}
		sprintCount += count
	}

	return &domain.DashboardStats{
		TaskBreakdown: domain.BuildTaskBreakdown(tasks, s.now()),
		ProjectCount:  len(projects),
		SprintCount:   sprintCount,
	}, nil
}

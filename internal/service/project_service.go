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

// ProjectService инкапсулирует бизнес-логику работы с проектами и командами
type ProjectService struct {
	repo       repository.ProjectRepository
	userRepo   repository.UserRepository
	taskRepo   repository.TaskRepository
	sprintRepo repository.SprintRepository
	authorizer *Authorizer
	cache      EntityCache
	producer   EventPublisher
	logger     logger.Logger
}

// NewProjectService создает сервис проектов
func NewProjectService(
	repo repository.ProjectRepository,
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	sprintRepo repository.SprintRepository,
	cache EntityCache,
	producer EventPublisher,
	log logger.Logger,
) *ProjectService {
	return &ProjectService{
		repo:       repo,
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		sprintRepo: sprintRepo,
		authorizer: NewAuthorizer(),
		cache:      cache,
		producer:   producer,
		logger:     log,
	}
}

// Create создает новый проект. Менеджер проекта всегда входит в команду.
func (s *ProjectService) Create(ctx context.Context, actor domain.Actor, req domain.ProjectCreateRequest) (*domain.Project, error) {
	if d := s.authorizer.CanManageProject(actor); !d.Allowed {
		return nil, d.Err()
	}

	manager, err := s.userRepo.GetByID(ctx, req.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager.Role == domain.UserRoleMember {
		return nil, fmt.Errorf("%w: project manager must have manager role or above", domain.ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = domain.ProjectStatusPlanned
	}

	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Client:      req.Client,
		Description: req.Description,
		Status:      status,
		ManagerID:   req.ManagerID,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	// Менеджер и перечисленные участники попадают в команду сразу
	team := append([]string{req.ManagerID}, req.Team...)
	for _, userID := range team {
		if project.HasTeamMember(userID) {
			continue
		}
		member := &domain.TeamMember{
			ProjectID: project.ID,
			UserID:    userID,
			AddedBy:   actor.ID,
			AddedAt:   now,
		}
		if err := s.repo.AddTeamMember(ctx, member); err != nil {
			return nil, fmt.Errorf("add team member: %w", err)
		}
		project.Team = append(project.Team, userID)
	}

	s.cacheProject(ctx, project)
	s.publishProjectEvent(ctx, messaging.EventTypeProjectCreated, project, actor, nil)

	s.logger.Info("project created", "project_id", project.ID, "actor_id", actor.ID)
	return project, nil
}

// GetByID возвращает проект. Участник с ролью member видит
// только проекты, в команде которых он состоит.
func (s *ProjectService) GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	project := s.cachedProject(ctx, id)
	if project == nil {
		var err error
		project, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		s.cacheProject(ctx, project)
	}

	if d := s.authorizer.CanViewProject(actor, project); !d.Allowed {
		return nil, d.Err()
	}
	return project, nil
}

// Update обновляет данные проекта
func (s *ProjectService) Update(ctx context.Context, actor domain.Actor, id string, req domain.ProjectUpdateRequest) (*domain.Project, error) {
	if d := s.authorizer.CanManageProject(actor); !d.Allowed {
		return nil, d.Err()
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]interface{})
	if req.Title != nil {
		project.Title = *req.Title
		changes["title"] = *req.Title
	}
	if req.Client != nil {
		project.Client = *req.Client
		changes["client"] = *req.Client
	}
	if req.Description != nil {
		project.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
		changes["status"] = *req.Status
	}
	if req.ManagerID != nil && *req.ManagerID != project.ManagerID {
		manager, err := s.userRepo.GetByID(ctx, *req.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager.Role == domain.UserRoleMember {
			return nil, fmt.Errorf("%w: project manager must have manager role or above", domain.ErrValidation)
		}
		project.ManagerID = *req.ManagerID
		changes["manager_id"] = *req.ManagerID
		// Новый менеджер обязан состоять в команде
		if !project.HasTeamMember(*req.ManagerID) {
			member := &domain.TeamMember{
				ProjectID: project.ID,
				UserID:    *req.ManagerID,
				AddedBy:   actor.ID,
				AddedAt:   time.Now(),
			}
			if err := s.repo.AddTeamMember(ctx, member); err != nil {
				return nil, fmt.Errorf("add team member: %w", err)
			}
			project.Team = append(project.Team, *req.ManagerID)
		}
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
		changes["budget"] = *req.Budget
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
		changes["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
		changes["end_date"] = *req.EndDate
	}

	project.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.dropCachedProject(ctx, id)
	s.publishProjectEvent(ctx, messaging.EventTypeProjectUpdated, project, actor, changes)

	s.logger.Info("project updated", "project_id", id, "actor_id", actor.ID)
	return project, nil
}

// Delete удаляет проект вместе со спринтами и задачами
func (s *ProjectService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if d := s.authorizer.CanManageProject(actor); !d.Allowed {
		return d.Err()
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.dropCachedProject(ctx, id)

	s.logger.Info("project deleted", "project_id", id, "actor_id", actor.ID)
	return nil
}

// List возвращает страницу проектов. Для роли member список
// ограничен проектами, в команде которых он состоит.
func (s *ProjectService) List(ctx context.Context, actor domain.Actor, opts domain.ProjectFilterOptions) ([]*domain.Project, int, error) {
	filter := repository.ProjectFilter{
		Status:     opts.Status,
		ManagerID:  opts.ManagerID,
		SearchText: opts.SearchText,
		OrderBy:    opts.SortBy,
		OrderDir:   opts.SortOrder,
	}
	if actor.IsManagerOrAbove() {
		filter.MemberID = opts.MemberID
	} else {
		memberID := actor.ID
		filter.MemberID = &memberID
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

	projects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}
	return projects, total, nil
}

// AddTeamMember добавляет пользователя в команду проекта
func (s *ProjectService) AddTeamMember(ctx context.Context, actor domain.Actor, projectID, userID string) error {
	if d := s.authorizer.CanManageProject(actor); !d.Allowed {
		return d.Err()
	}

	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return fmt.Errorf("%w: user is not active", domain.ErrValidation)
	}

	member := &domain.TeamMember{
		ProjectID: projectID,
		UserID:    userID,
		AddedBy:   actor.ID,
		AddedAt:   time.Now(),
	}
	if err := s.repo.AddTeamMember(ctx, member); err != nil {
		return fmt.Errorf("add team member: %w", err)
	}

	s.dropCachedProject(ctx, projectID)
	s.publishTeamMemberEvent(ctx, messaging.EventTypeTeamMemberAdded, project, userID, actor)

	s.logger.Info("team member added", "project_id", projectID, "user_id", userID, "actor_id", actor.ID)
	return nil
}

// RemoveTeamMember удаляет пользователя из команды проекта.
// Менеджер проекта не может быть удален из собственной команды.
func (s *ProjectService) RemoveTeamMember(ctx context.Context, actor domain.Actor, projectID, userID string) error {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanRemoveTeamMember(actor, project, userID); err != nil {
		return err
	}

	if err := s.repo.RemoveTeamMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}

	s.dropCachedProject(ctx, projectID)
	s.publishTeamMemberEvent(ctx, messaging.EventTypeTeamMemberRemoved, project, userID, actor)

	s.logger.Info("team member removed", "project_id", projectID, "user_id", userID, "actor_id", actor.ID)
	return nil
}

// GetTeam возвращает команду проекта с краткими карточками пользователей
func (s *ProjectService) GetTeam(ctx context.Context, actor domain.Actor, projectID string) ([]domain.UserBrief, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.CanViewProject(actor, project); !d.Allowed {
		return nil, d.Err()
	}

	members, err := s.repo.GetTeam(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}

	briefs := make([]domain.UserBrief, 0, len(members))
	for _, member := range members {
		user, err := s.userRepo.GetByID(ctx, member.UserID)
		if err != nil {
			continue
		}
		briefs = append(briefs, user.ToBrief())
	}
	return briefs, nil
}

func (s *ProjectService) cachedProject(ctx context.Context, id string) *domain.Project {
	if s.cache == nil {
		return nil
	}
	project, err := s.cache.GetProject(ctx, id)
	if err != nil {
		return nil
	}
	return project
}

func (s *ProjectService) cacheProject(ctx context.Context, project *domain.Project) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetProject(ctx, project); err != nil {
		s.logger.Warn("cache project", "project_id", project.ID, "error", err.Error())
	}
}

func (s *ProjectService) dropCachedProject(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProject(ctx, id); err != nil {
		s.logger.Warn("drop cached project", "project_id", id, "error", err.Error())
	}
}

func (s *ProjectService) publishProjectEvent(ctx context.Context, eventType string, project *domain.Project, actor domain.Actor, changes map[string]interface{}) {
	if s.producer == nil {
		return
	}
	event := &messaging.ProjectEvent{
		ID:        project.ID,
		Title:     project.Title,
		Client:    project.Client,
		Status:    string(project.Status),
		ManagerID: project.ManagerID,
		ActorID:   actor.ID,
		UpdatedAt: project.UpdatedAt,
		Changes:   changes,
	}
	if err := s.producer.PublishProjectEvent(ctx, eventType, event); err != nil {
		s.logger.Error("publish project event", err, "project_id", project.ID, "event_type", eventType)
	}
}

func (s *ProjectService) publishTeamMemberEvent(ctx context.Context, eventType string, project *domain.Project, userID string, actor domain.Actor) {
	if s.producer == nil {
		return
	}
	event := &messaging.TeamMemberEvent{
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		UserID:       userID,
		ActorID:      actor.ID,
		OccurredAt:   time.Now(),
	}
	if err := s.producer.PublishTeamMemberEvent(ctx, eventType, event); err != nil {
		s.logger.Error("publish team member event", err, "project_id", project.ID, "event_type", eventType)
	}
}

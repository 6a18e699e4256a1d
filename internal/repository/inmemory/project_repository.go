package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
)

// ProjectRepository хранит проекты и команды в памяти
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
	teams    map[string][]*domain.TeamMember // projectID -> участники
}

// NewProjectRepository создает пустой репозиторий проектов
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		projects: make(map[string]*domain.Project),
		teams:    make(map[string][]*domain.TeamMember),
	}
}

// Create создает новый проект
func (r *ProjectRepository) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *project
	clone.Team = append([]string(nil), project.Team...)
	r.projects[project.ID] = &clone
	return nil
}

// GetByID возвращает проект по ID вместе с командой
func (r *ProjectRepository) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, domain.NewNotFoundError("project", id)
	}
	return r.cloneWithTeam(project), nil
}

// Update обновляет данные проекта
func (r *ProjectRepository) Update(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[project.ID]; !ok {
		return domain.NewNotFoundError("project", project.ID)
	}
	clone := *project
	clone.Team = nil
	r.projects[project.ID] = &clone
	return nil
}

// Delete удаляет проект по ID
func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return domain.NewNotFoundError("project", id)
	}
	delete(r.projects, id)
	delete(r.teams, id)
	return nil
}

// List возвращает список проектов с фильтрацией
func (r *ProjectRepository) List(_ context.Context, filter repository.ProjectFilter) ([]*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Limit, filter.Offset), nil
}

// Count возвращает количество проектов с фильтрацией
func (r *ProjectRepository) Count(_ context.Context, filter repository.ProjectFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.match(filter)), nil
}

// AddTeamMember добавляет пользователя в команду проекта
func (r *ProjectRepository) AddTeamMember(_ context.Context, member *domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[member.ProjectID]; !ok {
		return domain.NewNotFoundError("project", member.ProjectID)
	}
	for _, m := range r.teams[member.ProjectID] {
		if m.UserID == member.UserID {
			return nil
		}
	}
	clone := *member
	r.teams[member.ProjectID] = append(r.teams[member.ProjectID], &clone)
	return nil
}

// RemoveTeamMember удаляет пользователя из команды проекта
func (r *ProjectRepository) RemoveTeamMember(_ context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team := r.teams[projectID]
	for i, m := range team {
		if m.UserID == userID {
			r.teams[projectID] = append(team[:i], team[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFoundError("team member", userID)
}

// GetTeam возвращает команду проекта
func (r *ProjectRepository) GetTeam(_ context.Context, projectID string) ([]*domain.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team := make([]*domain.TeamMember, 0, len(r.teams[projectID]))
	for _, m := range r.teams[projectID] {
		clone := *m
		team = append(team, &clone)
	}
	sort.Slice(team, func(i, j int) bool {
		return team[i].AddedAt.Before(team[j].AddedAt)
	})
	return team, nil
}

// IsTeamMember проверяет, входит ли пользователь в команду проекта
func (r *ProjectRepository) IsTeamMember(_ context.Context, projectID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.teams[projectID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProjectRepository) cloneWithTeam(project *domain.Project) *domain.Project {
	clone := *project
	clone.Team = nil
	for _, m := range r.teams[project.ID] {
		clone.Team = append(clone.Team, m.UserID)
	}
	return &clone
}

func (r *ProjectRepository) match(filter repository.ProjectFilter) []*domain.Project {
	var matched []*domain.Project
	for _, project := range r.projects {
		if len(filter.IDs) > 0 && !containsString(filter.IDs, project.ID) {
			continue
		}
		if filter.Status != nil && project.Status != *filter.Status {
			continue
		}
		if filter.ManagerID != nil && project.ManagerID != *filter.ManagerID {
			continue
		}
		if filter.MemberID != nil {
			member := false
			for _, m := range r.teams[project.ID] {
				if m.UserID == *filter.MemberID {
					member = true
					break
				}
			}
			if !member {
				continue
			}
		}
		if filter.SearchText != nil {
			text := strings.ToLower(*filter.SearchText)
			if !strings.Contains(strings.ToLower(project.Title), text) &&
				!strings.Contains(strings.ToLower(project.Description), text) {
				continue
			}
		}
		matched = append(matched, r.cloneWithTeam(project))
	}
	return matched
}

package repository

import (
	"context"

	"github.com/yourusername/project-hub/internal/domain"
)

// ProjectRepository определяет интерфейс для работы с хранилищем проектов
type ProjectRepository interface {
	// Create создает новый проект
	Create(ctx context.Context, project *domain.Project) error

	// GetByID возвращает проект по ID вместе с командой
	GetByID(ctx context.Context, id string) (*domain.Project, error)

	// Update обновляет данные проекта
	Update(ctx context.Context, project *domain.Project) error

	// Delete удаляет проект по ID. Задачи проекта удаляются каскадно.
	Delete(ctx context.Context, id string) error

	// List возвращает список проектов с фильтрацией
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)

	// Count возвращает количество проектов с фильтрацией
	Count(ctx context.Context, filter ProjectFilter) (int, error)

	// AddTeamMember добавляет пользователя в команду проекта
	AddTeamMember(ctx context.Context, member *domain.TeamMember) error

	// RemoveTeamMember удаляет пользователя из команды проекта
	RemoveTeamMember(ctx context.Context, projectID, userID string) error

	// GetTeam возвращает команду проекта
	GetTeam(ctx context.Context, projectID string) ([]*domain.TeamMember, error)

	// IsTeamMember проверяет, входит ли пользователь в команду проекта
	IsTeamMember(ctx context.Context, projectID, userID string) (bool, error)
}

// ProjectFilter содержит параметры для фильтрации проектов
type ProjectFilter struct {
	IDs        []string              `json:"ids,omitempty"`
	Status     *domain.ProjectStatus `json:"status,omitempty"`
	ManagerID  *string               `json:"manager_id,omitempty"`
	MemberID   *string               `json:"member_id,omitempty"`
	SearchText *string               `json:"search_text,omitempty"`
	OrderBy    *string               `json:"order_by,omitempty"`
	OrderDir   *string               `json:"order_dir,omitempty"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
}

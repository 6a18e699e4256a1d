package domain

import (
	"time"
)

// ProjectStatus определяет статус проекта
type ProjectStatus string

const (
	// ProjectStatusPlanned - запланированный проект
	ProjectStatusPlanned ProjectStatus = "planned"
	// ProjectStatusActive - активный проект
	ProjectStatusActive ProjectStatus = "active"
	// ProjectStatusCompleted - завершенный проект
	ProjectStatusCompleted ProjectStatus = "completed"
	// ProjectStatusArchived - архивированный проект
	ProjectStatusArchived ProjectStatus = "archived"
)

// Project представляет модель проекта
type Project struct {
	ID          string        `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Client      string        `json:"client" db:"client"`
	Description string        `json:"description" db:"description"`
	Status      ProjectStatus `json:"status" db:"status"`
	ManagerID   string        `json:"manager_id" db:"manager_id"`
	Budget      float64       `json:"budget" db:"budget"`
	StartDate   *time.Time    `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty" db:"end_date"`
	Team        []string      `json:"team,omitempty" db:"-"` // Участники хранятся в отдельной таблице
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// TeamMember представляет связь пользователя с командой проекта
type TeamMember struct {
	ProjectID string    `json:"project_id" db:"project_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	AddedBy   string    `json:"added_by" db:"added_by"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`
}

// HasTeamMember проверяет, входит ли пользователь в команду проекта
func (p *Project) HasTeamMember(userID string) bool {
	for _, id := range p.Team {
		if id == userID {
			return true
		}
	}
	return false
}

// IsActive проверяет, является ли проект активным
func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}

// ProjectCreateRequest представляет данные для создания проекта
type ProjectCreateRequest struct {
	Title       string        `json:"title" validate:"required,min=3,max=200"`
	Client      string        `json:"client" validate:"required,min=1,max=200"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status" validate:"omitempty,oneof=planned active completed archived"`
	ManagerID   string        `json:"manager_id" validate:"required,uuid"`
	Budget      float64       `json:"budget" validate:"gte=0"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Team        []string      `json:"team,omitempty" validate:"omitempty,dive,uuid"`
}

// ProjectUpdateRequest представляет данные для обновления проекта
type ProjectUpdateRequest struct {
	Title       *string        `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Client      *string        `json:"client,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=planned active completed archived"`
	ManagerID   *string        `json:"manager_id,omitempty" validate:"omitempty,uuid"`
	Budget      *float64       `json:"budget,omitempty" validate:"omitempty,gte=0"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
}

// AddTeamMemberRequest представляет запрос на добавление участника в команду
type AddTeamMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ProjectResponse представляет данные проекта для API-ответов
type ProjectResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Client      string        `json:"client"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	ManagerID   string        `json:"manager_id"`
	Manager     *UserBrief    `json:"manager,omitempty"`
	Budget      float64       `json:"budget"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Team        []UserBrief   `json:"team,omitempty"`
	Progress    int           `json:"progress"`
	Stats       *ProjectStats `json:"stats,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToResponse преобразует Project в ProjectResponse
func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Client:      p.Client,
		Description: p.Description,
		Status:      p.Status,
		ManagerID:   p.ManagerID,
		Budget:      p.Budget,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectFilterOptions представляет параметры для фильтрации проектов
type ProjectFilterOptions struct {
	Status     *ProjectStatus `json:"status,omitempty"`
	ManagerID  *string        `json:"manager_id,omitempty"`
	MemberID   *string        `json:"member_id,omitempty"`
	SearchText *string        `json:"search_text,omitempty"`
	SortBy     *string        `json:"sort_by,omitempty"`
	SortOrder  *string        `json:"sort_order,omitempty"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

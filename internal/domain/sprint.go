package domain

import (
	"time"
)

// Sprint представляет модель спринта
type Sprint struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	SprintNumber int        `json:"sprint_number" db:"sprint_number"`
	ProjectID    string     `json:"project_id" db:"project_id"`
	Goal         *string    `json:"goal,omitempty" db:"goal"`
	StartDate    *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty" db:"end_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ElapsedDays возвращает количество дней с начала спринта
func (s *Sprint) ElapsedDays(now time.Time) float64 {
	if s.StartDate == nil || now.Before(*s.StartDate) {
		return 0
	}
	return now.Sub(*s.StartDate).Hours() / 24
}

// SprintCreateRequest представляет данные для создания спринта.
// Номер спринта назначается автоматически и в запросе не передается.
type SprintCreateRequest struct {
	Title     string     `json:"title" validate:"required,min=3,max=200"`
	ProjectID string     `json:"project_id" validate:"required,uuid"`
	Goal      *string    `json:"goal,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// SprintUpdateRequest представляет данные для обновления спринта
type SprintUpdateRequest struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Goal      *string    `json:"goal,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// SprintResponse представляет данные спринта для API-ответов
type SprintResponse struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	SprintNumber int          `json:"sprint_number"`
	ProjectID    string       `json:"project_id"`
	Goal         *string      `json:"goal,omitempty"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	Progress     int          `json:"progress"`
	Stats        *SprintStats `json:"stats,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ToResponse преобразует Sprint в SprintResponse
func (s *Sprint) ToResponse() SprintResponse {
	return SprintResponse{
		ID:           s.ID,
		Title:        s.Title,
		SprintNumber: s.SprintNumber,
		ProjectID:    s.ProjectID,
		Goal:         s.Goal,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

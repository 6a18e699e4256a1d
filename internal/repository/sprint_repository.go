package repository

import (
	"context"

	"github.com/yourusername/project-hub/internal/domain"
)

// SprintRepository определяет интерфейс для работы с хранилищем спринтов
type SprintRepository interface {
	// Create создает новый спринт. Номер спринта назначается хранилищем
	// как следующий свободный для проекта и записывается в sprint.SprintNumber.
	// Уникальность номера при конкурентном создании не гарантируется.
	Create(ctx context.Context, sprint *domain.Sprint) error

	// GetByID возвращает спринт по ID
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)

	// Update обновляет данные спринта
	Update(ctx context.Context, sprint *domain.Sprint) error

	// Delete удаляет спринт по ID. Задачи спринта не удаляются,
	// вызывающая сторона снимает их со спринта отдельно.
	Delete(ctx context.Context, id string) error

	// ListByProject возвращает спринты проекта в порядке номеров
	ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error)

	// CountByProject возвращает количество спринтов проекта
	CountByProject(ctx context.Context, projectID string) (int, error)
}

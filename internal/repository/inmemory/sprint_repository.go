package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/yourusername/project-hub/internal/domain"
)

// SprintRepository хранит спринты в памяти
type SprintRepository struct {
	mu      sync.Mutex
	sprints map[string]*domain.Sprint
}

// NewSprintRepository создает пустой репозиторий спринтов
func NewSprintRepository() *SprintRepository {
	return &SprintRepository{sprints: make(map[string]*domain.Sprint)}
}

// Create создает новый спринт и назначает ему следующий номер в проекте
func (r *SprintRepository) Create(_ context.Context, sprint *domain.Sprint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxNumber := 0
	for _, s := range r.sprints {
		if s.ProjectID == sprint.ProjectID && s.SprintNumber > maxNumber {
			maxNumber = s.SprintNumber
		}
	}
	sprint.SprintNumber = maxNumber + 1

	clone := *sprint
	r.sprints[sprint.ID] = &clone
	return nil
}

// GetByID возвращает спринт по ID
func (r *SprintRepository) GetByID(_ context.Context, id string) (*domain.Sprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sprint, ok := r.sprints[id]
	if !ok {
		return nil, domain.NewNotFoundError("sprint", id)
	}
	clone := *sprint
	return &clone, nil
}

// Update обновляет данные спринта
func (r *SprintRepository) Update(_ context.Context, sprint *domain.Sprint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sprints[sprint.ID]; !ok {
		return domain.NewNotFoundError("sprint", sprint.ID)
	}
	clone := *sprint
	r.sprints[sprint.ID] = &clone
	return nil
}

// Delete удаляет спринт по ID
func (r *SprintRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sprints[id]; !ok {
		return domain.NewNotFoundError("sprint", id)
	}
	delete(r.sprints, id)
	return nil
}

// ListByProject возвращает спринты проекта в порядке номеров
func (r *SprintRepository) ListByProject(_ context.Context, projectID string) ([]*domain.Sprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sprints []*domain.Sprint
	for _, sprint := range r.sprints {
		if sprint.ProjectID == projectID {
			clone := *sprint
			sprints = append(sprints, &clone)
		}
	}
	sort.Slice(sprints, func(i, j int) bool {
		return sprints[i].SprintNumber < sprints[j].SprintNumber
	})
	return sprints, nil
}

// CountByProject возвращает количество спринтов проекта
func (r *SprintRepository) CountByProject(_ context.Context, projectID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, sprint := range r.sprints {
		if sprint.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

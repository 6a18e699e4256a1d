package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/project-hub/internal/domain"
)

// SprintRepository реализует repository.SprintRepository поверх PostgreSQL
type SprintRepository struct {
	db *sqlx.DB
}

// NewSprintRepository создает репозиторий спринтов
func NewSprintRepository(db *sqlx.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

// Create создает новый спринт, назначая ему следующий номер в проекте.
// Номер вычисляется одним INSERT, поэтому при конкурентном создании
// спринтов одного проекта возможны повторные номера.
func (r *SprintRepository) Create(ctx context.Context, sprint *domain.Sprint) error {
	query := `
		INSERT INTO sprints (id, title, sprint_number, project_id, goal, start_date, end_date, created_at, updated_at)
		SELECT $1, $2, COALESCE(MAX(sprint_number), 0) + 1, $3, $4, $5, $6, $7, $8
		FROM sprints WHERE project_id = $3
		RETURNING sprint_number
	`
	err := r.db.QueryRowContext(ctx, query,
		sprint.ID, sprint.Title, sprint.ProjectID, sprint.Goal,
		sprint.StartDate, sprint.EndDate, sprint.CreatedAt, sprint.UpdatedAt,
	).Scan(&sprint.SprintNumber)
	if err != nil {
		return fmt.Errorf("insert sprint: %w", err)
	}
	return nil
}

// GetByID возвращает спринт по ID
func (r *SprintRepository) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	var sprint domain.Sprint
	query := `SELECT * FROM sprints WHERE id = $1`
	if err := r.db.GetContext(ctx, &sprint, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("sprint", id)
		}
		return nil, fmt.Errorf("get sprint by id: %w", err)
	}
	return &sprint, nil
}

// Update обновляет данные спринта. Номер спринта не меняется.
func (r *SprintRepository) Update(ctx context.Context, sprint *domain.Sprint) error {
	query := `
		UPDATE sprints
		SET title = :title, goal = :goal, start_date = :start_date,
		    end_date = :end_date, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, sprint)
	if err != nil {
		return fmt.Errorf("update sprint: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("sprint", sprint.ID))
}

// Delete удаляет спринт по ID
func (r *SprintRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sprint: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("sprint", id))
}

// ListByProject возвращает спринты проекта в порядке номеров
func (r *SprintRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	var sprints []*domain.Sprint
	query := `SELECT * FROM sprints WHERE project_id = $1 ORDER BY sprint_number`
	if err := r.db.SelectContext(ctx, &sprints, query, projectID); err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	return sprints, nil
}

// CountByProject возвращает количество спринтов проекта
func (r *SprintRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sprints WHERE project_id = $1`
	if err := r.db.GetContext(ctx, &count, query, projectID); err != nil {
		return 0, fmt.Errorf("count sprints: %w", err)
	}
	return count, nil
}

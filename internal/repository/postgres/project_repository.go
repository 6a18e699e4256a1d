package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
)

// ProjectRepository реализует repository.ProjectRepository поверх PostgreSQL
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository создает репозиторий проектов
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create создает новый проект
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, title, client, description, status, manager_id, budget,
		                      start_date, end_date, created_at, updated_at)
		VALUES (:id, :title, :client, :description, :status, :manager_id, :budget,
		        :start_date, :end_date, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID возвращает проект по ID вместе с командой
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	query := `SELECT * FROM projects WHERE id = $1`
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("project", id)
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}

	teamQuery := `SELECT user_id FROM project_team WHERE project_id = $1 ORDER BY added_at`
	if err := r.db.SelectContext(ctx, &project.Team, teamQuery, id); err != nil {
		return nil, fmt.Errorf("load project team: %w", err)
	}
	return &project, nil
}

// Update обновляет данные проекта
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects
		SET title = :title, client = :client, description = :description, status = :status,
		    manager_id = :manager_id, budget = :budget, start_date = :start_date,
		    end_date = :end_date, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, project)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("project", project.ID))
}

// Delete удаляет проект по ID. Задачи, спринты и команда
// удаляются каскадно по внешним ключам.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("project", id))
}

// List возвращает список проектов с фильтрацией
func (r *ProjectRepository) List(ctx context.Context, filter repository.ProjectFilter) ([]*domain.Project, error) {
	where, args := buildProjectWhere(filter)

	query := `SELECT * FROM projects` + where
	query += orderClause(filter.OrderBy, filter.OrderDir, "created_at", map[string]bool{
		"created_at": true, "title": true, "status": true, "start_date": true,
	})
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	var projects []*domain.Project
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	for _, project := range projects {
		teamQuery := `SELECT user_id FROM project_team WHERE project_id = $1 ORDER BY added_at`
		if err := r.db.SelectContext(ctx, &project.Team, teamQuery, project.ID); err != nil {
			return nil, fmt.Errorf("load project team: %w", err)
		}
	}
	return projects, nil
}

// Count возвращает количество проектов с фильтрацией
func (r *ProjectRepository) Count(ctx context.Context, filter repository.ProjectFilter) (int, error) {
	where, args := buildProjectWhere(filter)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects`+where, args...); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

// AddTeamMember добавляет пользователя в команду проекта
func (r *ProjectRepository) AddTeamMember(ctx context.Context, member *domain.TeamMember) error {
	query := `
		INSERT INTO project_team (project_id, user_id, added_by, added_at)
		VALUES (:project_id, :user_id, :added_by, :added_at)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

// RemoveTeamMember удаляет пользователя из команды проекта
func (r *ProjectRepository) RemoveTeamMember(ctx context.Context, projectID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM project_team WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("team member", userID))
}

// GetTeam возвращает команду проекта
func (r *ProjectRepository) GetTeam(ctx context.Context, projectID string) ([]*domain.TeamMember, error) {
	var team []*domain.TeamMember
	query := `SELECT * FROM project_team WHERE project_id = $1 ORDER BY added_at`
	if err := r.db.SelectContext(ctx, &team, query, projectID); err != nil {
		return nil, fmt.Errorf("get project team: %w", err)
	}
	return team, nil
}

// IsTeamMember проверяет, входит ли пользователь в команду проекта
func (r *ProjectRepository) IsTeamMember(ctx context.Context, projectID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM project_team WHERE project_id = $1 AND user_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, projectID, userID); err != nil {
		return false, fmt.Errorf("check team member: %w", err)
	}
	return exists, nil
}

func buildProjectWhere(filter repository.ProjectFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if len(filter.IDs) > 0 {
		args = append(args, pqArray(filter.IDs))
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ManagerID != nil {
		args = append(args, *filter.ManagerID)
		conditions = append(conditions, fmt.Sprintf("manager_id = $%d", len(args)))
	}
	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		conditions = append(conditions, fmt.Sprintf(
			"id IN (SELECT project_id FROM project_team WHERE user_id = $%d)", len(args)))
	}
	if filter.SearchText != nil {
		args = append(args, "%"+*filter.SearchText+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

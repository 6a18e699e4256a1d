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
	"github.com/yourusername/project-hub/pkg/database"
)

// UserRepository реализует repository.UserRepository поверх PostgreSQL
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создает репозиторий пользователей
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает нового пользователя вместе с навыками
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (id, name, email, hashed_password, role, department, is_active, created_at, updated_at)
			VALUES (:id, :name, :email, :hashed_password, :role, :department, :is_active, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return replaceUserSkills(ctx, tx, user.ID, user.Skills)
	})
}

// GetByID возвращает пользователя по ID вместе с навыками
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	if err := r.loadSkills(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email вместе с навыками
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := r.loadSkills(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update обновляет данные пользователя
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = :name, email = :email, hashed_password = :hashed_password,
		    role = :role, department = :department, is_active = :is_active,
		    last_login_at = :last_login_at, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("user", user.ID))
}

// UpdateSkills заменяет набор навыков пользователя
func (r *UserRepository) UpdateSkills(ctx context.Context, userID string, skills []string) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return replaceUserSkills(ctx, tx, userID, skills)
	})
}

// List возвращает список пользователей с фильтрацией
func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	where, args := buildUserWhere(filter)

	query := `SELECT * FROM users` + where
	query += orderClause(filter.OrderBy, filter.OrderDir, "created_at", map[string]bool{
		"created_at": true, "name": true, "email": true, "role": true,
	})
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for _, user := range users {
		if err := r.loadSkills(ctx, user); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Count возвращает количество пользователей с фильтрацией
func (r *UserRepository) Count(ctx context.Context, filter repository.UserFilter) (int, error) {
	where, args := buildUserWhere(filter)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`+where, args...); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) loadSkills(ctx context.Context, user *domain.User) error {
	query := `SELECT skill FROM user_skills WHERE user_id = $1 ORDER BY skill`
	if err := r.db.SelectContext(ctx, &user.Skills, query, user.ID); err != nil {
		return fmt.Errorf("load user skills: %w", err)
	}
	return nil
}

func replaceUserSkills(ctx context.Context, tx *sqlx.Tx, userID string, skills []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user skills: %w", err)
	}
	for _, skill := range skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_skills (user_id, skill) VALUES ($1, $2)`, userID, skill); err != nil {
			return fmt.Errorf("insert user skill: %w", err)
		}
	}
	return nil
}

func buildUserWhere(filter repository.UserFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if len(filter.IDs) > 0 {
		args = append(args, pqArray(filter.IDs))
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.SearchText != nil {
		args = append(args, "%"+*filter.SearchText+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

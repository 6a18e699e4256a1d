package repository

import (
	"context"

	"github.com/yourusername/project-hub/internal/domain"
)

// UserRepository определяет интерфейс для работы с хранилищем пользователей
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// UpdateSkills заменяет набор навыков пользователя
	UpdateSkills(ctx context.Context, userID string, skills []string) error

	// List возвращает список пользователей с фильтрацией
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)

	// Count возвращает количество пользователей с фильтрацией
	Count(ctx context.Context, filter UserFilter) (int, error)
}

// UserFilter содержит параметры для фильтрации пользователей
type UserFilter struct {
	IDs        []string         `json:"ids,omitempty"`
	Role       *domain.UserRole `json:"role,omitempty"`
	Department *string          `json:"department,omitempty"`
	IsActive   *bool            `json:"is_active,omitempty"`
	SearchText *string          `json:"search_text,omitempty"`
	OrderBy    *string          `json:"order_by,omitempty"`
	OrderDir   *string          `json:"order_dir,omitempty"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
)

// UserRepository хранит пользователей в памяти.
// Используется в тестах и локальной разработке.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepository создает пустой репозиторий пользователей
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Create создает нового пользователя
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}
	clone := *user
	return &clone, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.NewNotFoundError("user", email)
}

// Update обновляет данные пользователя
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.NewNotFoundError("user", user.ID)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

// UpdateSkills заменяет набор навыков пользователя
func (r *UserRepository) UpdateSkills(_ context.Context, userID string, skills []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return domain.NewNotFoundError("user", userID)
	}
	user.Skills = append([]string(nil), skills...)
	return nil
}

// List возвращает список пользователей с фильтрацией
func (r *UserRepository) List(_ context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Limit, filter.Offset), nil
}

// Count возвращает количество пользователей с фильтрацией
func (r *UserRepository) Count(_ context.Context, filter repository.UserFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.match(filter)), nil
}

func (r *UserRepository) match(filter repository.UserFilter) []*domain.User {
	var matched []*domain.User
	for _, user := range r.users {
		if len(filter.IDs) > 0 && !containsString(filter.IDs, user.ID) {
			continue
		}
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Department != nil && (user.Department == nil || *user.Department != *filter.Department) {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		if filter.SearchText != nil {
			text := strings.ToLower(*filter.SearchText)
			if !strings.Contains(strings.ToLower(user.Name), text) &&
				!strings.Contains(strings.ToLower(user.Email), text) {
				continue
			}
		}
		clone := *user
		matched = append(matched, &clone)
	}
	return matched
}

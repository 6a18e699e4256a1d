package domain

import (
	"time"
)

// UserRole определяет роль пользователя в системе
type UserRole string

const (
	// UserRoleAdmin имеет неограниченный доступ ко всем сущностям
	UserRoleAdmin UserRole = "admin"
	// UserRoleManager управляет проектами, спринтами и задачами
	UserRoleManager UserRole = "manager"
	// UserRoleMember работает только со своими проектами и задачами
	UserRoleMember UserRole = "member"
)

// Actor представляет аутентифицированного пользователя, выполняющего операцию
type Actor struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

// IsAdmin проверяет, является ли актор администратором
func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}

// IsManagerOrAbove проверяет, имеет ли актор роль не ниже менеджера
func (a Actor) IsManagerOrAbove() bool {
	return a.Role == UserRoleAdmin || a.Role == UserRoleManager
}

// User представляет модель пользователя
type User struct {
	ID             string     `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	Role           UserRole   `json:"role" db:"role"`
	Department     *string    `json:"department,omitempty" db:"department"`
	Skills         []string   `json:"skills,omitempty" db:"-"` // Навыки хранятся в отдельной таблице
	IsActive       bool       `json:"is_active" db:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Actor возвращает актора для операций от имени пользователя
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// HasRole проверяет, имеет ли пользователь указанную роль
func (u *User) HasRole(role UserRole) bool {
	return u.Role == role
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// UserCreateRequest представляет данные для создания пользователя
type UserCreateRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	Role       UserRole `json:"role" validate:"required,oneof=admin manager member"`
	Department *string  `json:"department,omitempty"`
	Skills     []string `json:"skills,omitempty" validate:"omitempty,dive,min=1,max=50"`
}

// UserUpdateRequest представляет данные для обновления пользователя
type UserUpdateRequest struct {
	Name       *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role       *UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin manager member"`
	Department *string   `json:"department,omitempty"`
	Skills     *[]string `json:"skills,omitempty" validate:"omitempty,dive,min=1,max=50"`
	IsActive   *bool     `json:"is_active,omitempty"`
}

// UserResponse представляет данные пользователя для API-ответов
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       UserRole  `json:"role"`
	Department *string   `json:"department,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserBrief представляет краткую информацию о пользователе
type UserBrief struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// ToResponse преобразует User в UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Skills:     u.Skills,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ToBrief преобразует User в UserBrief
func (u *User) ToBrief() UserBrief {
	return UserBrief{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// LoginRequest представляет данные для входа пользователя
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse представляет ответ при успешном входе
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// RefreshTokenRequest представляет запрос на обновление токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest представляет запрос на изменение пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,nefield=OldPassword"`
}

// UserFilterOptions представляет параметры для фильтрации пользователей
type UserFilterOptions struct {
	Role       *UserRole `json:"role,omitempty"`
	Department *string   `json:"department,omitempty"`
	IsActive   *bool     `json:"is_active,omitempty"`
	SearchText *string   `json:"search_text,omitempty"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

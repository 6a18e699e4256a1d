package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Стандартные ошибки приложения
var (
	// ErrNotFound возвращается, когда запрашиваемая сущность не найдена
	ErrNotFound = errors.New("resource not found")

	// ErrValidation возвращается при невалидных входных данных
	ErrValidation = errors.New("validation error")

	// ErrForbidden возвращается при недостаточных правах доступа
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvariantViolation возвращается при нарушении инварианта данных
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnauthorized возвращается при отсутствии аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict возвращается при конфликте данных
	ErrConflict = errors.New("conflict")
)

// Коды причин отказа в доступе. Коды стабильны и отдаются клиенту как есть.
const (
	DenyReasonNotTeamMember  = "not_team_member"
	DenyReasonNotAssignee    = "not_assignee"
	DenyReasonRoleRestricted = "role_restricted"
	DenyReasonAdminTarget    = "admin_target"
	DenyReasonSelfTarget     = "self_target"
)

// NotFoundError означает, что сущность с указанным ID отсутствует
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError создает ошибку отсутствия сущности
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ForbiddenError означает отказ в доступе с указанием стабильного кода причины
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError создает отказ в доступе с кодом причины
func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// ForbiddenFieldError означает, что в запросе на обновление присутствуют
// поля, недоступные роли актора. Отклоняется весь запрос целиком.
type ForbiddenFieldError struct {
	Fields []string
}

func (e *ForbiddenFieldError) Error() string {
	return fmt.Sprintf("fields not allowed for role: %s", strings.Join(e.Fields, ", "))
}

func (e *ForbiddenFieldError) Unwrap() error {
	return ErrForbidden
}

// ForbiddenTransitionError означает, что переход статуса запрещен роли актора,
// хотя сам переход допустим таблицей переходов
type ForbiddenTransitionError struct {
	Role UserRole
	From TaskStatus
	To   TaskStatus
}

func (e *ForbiddenTransitionError) Error() string {
	return fmt.Sprintf("role %s may not transition task from %q to %q", e.Role, e.From, e.To)
}

func (e *ForbiddenTransitionError) Unwrap() error {
	return ErrForbidden
}

// InvalidTransitionError означает переход статуса, отсутствующий в таблице переходов
type InvalidTransitionError struct {
	From TaskStatus
	To   TaskStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvariantViolationError означает нарушение инварианта данных,
// например попытку убрать менеджера из команды его проекта
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}

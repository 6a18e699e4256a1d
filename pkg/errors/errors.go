package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yourusername/project-hub/internal/domain"
)

// AppError представляет ошибку приложения с HTTP-отображением
type AppError struct {
	Err        error
	StatusCode int
	Message    string
	Code       string
	Data       interface{}
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap возвращает оборачиваемую ошибку
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError создает новую ошибку приложения
func NewAppError(err error, statusCode int, message, code string, data interface{}) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
		Data:       data,
	}
}

// FromError отображает доменную ошибку в AppError с HTTP-статусом.
// Типизированные ошибки домена сохраняют код причины и детали.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fieldErr *domain.ForbiddenFieldError
	if errors.As(err, &fieldErr) {
		return NewAppError(err, http.StatusForbidden, fieldErr.Error(), "forbidden_fields", fieldErr.Fields)
	}

	var transitionErr *domain.ForbiddenTransitionError
	if errors.As(err, &transitionErr) {
		return NewAppError(err, http.StatusForbidden, transitionErr.Error(), "forbidden_transition", nil)
	}

	var invalidErr *domain.InvalidTransitionError
	if errors.As(err, &invalidErr) {
		return NewAppError(err, http.StatusConflict, invalidErr.Error(), "invalid_transition", map[string]string{
			"from": string(invalidErr.From),
			"to":   string(invalidErr.To),
		})
	}

	var forbiddenErr *domain.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return NewAppError(err, http.StatusForbidden, forbiddenErr.Error(), forbiddenErr.Reason, nil)
	}

	var invariantErr *domain.InvariantViolationError
	if errors.As(err, &invariantErr) {
		return NewAppError(err, http.StatusConflict, invariantErr.Error(), "invariant_violation", nil)
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return NewAppError(err, http.StatusNotFound, notFoundErr.Error(), "not_found", nil)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NewAppError(err, http.StatusNotFound, "Resource not found", "not_found", nil)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewAppError(err, http.StatusUnauthorized, "Unauthorized", "unauthorized", nil)
	case errors.Is(err, domain.ErrForbidden):
		return NewAppError(err, http.StatusForbidden, "Forbidden", "forbidden", nil)
	case errors.Is(err, domain.ErrInvariantViolation), errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		return NewAppError(err, http.StatusConflict, "Conflict", "conflict", nil)
	case errors.Is(err, domain.ErrValidation):
		return NewAppError(err, http.StatusUnprocessableEntity, "Validation error", "validation_error", nil)
	default:
		return NewAppError(err, http.StatusInternalServerError, "Internal server error", "internal_error", nil)
	}
}

// NotFound создает ошибку 404 Not Found
func NotFound(entity string, id interface{}) *AppError {
	msg := fmt.Sprintf("%s with ID %v not found", entity, id)
	return NewAppError(domain.ErrNotFound, http.StatusNotFound, msg, "not_found", nil)
}

// BadRequest создает ошибку 400 Bad Request
func BadRequest(message string) *AppError {
	return NewAppError(domain.ErrValidation, http.StatusBadRequest, message, "bad_request", nil)
}

// Unauthorized создает ошибку 401 Unauthorized
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(domain.ErrUnauthorized, http.StatusUnauthorized, message, "unauthorized", nil)
}

// Forbidden создает ошибку 403 Forbidden
func Forbidden(message string) *AppError {
	if message == "" {
		message = "You don't have permission to perform this action"
	}
	return NewAppError(domain.ErrForbidden, http.StatusForbidden, message, "forbidden", nil)
}

// Conflict создает ошибку 409 Conflict
func Conflict(entity string, field string, value interface{}) *AppError {
	msg := fmt.Sprintf("%s with %s %v already exists", entity, field, value)
	return NewAppError(domain.ErrConflict, http.StatusConflict, msg, "conflict", nil)
}

// ValidationError создает ошибку 422 Unprocessable Entity
func ValidationError(data interface{}) *AppError {
	return NewAppError(domain.ErrValidation, http.StatusUnprocessableEntity, "Validation failed", "validation_error", data)
}

// InternalServer создает ошибку 500 Internal Server Error
func InternalServer(err error) *AppError {
	return NewAppError(err, http.StatusInternalServerError, "Internal server error", "internal_error", nil)
}

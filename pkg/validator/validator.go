package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/project-hub/internal/domain"
)

// Validator предоставляет функциональность валидации структур
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр валидатора
func New() *Validator {
	validate := validator.New()

	// Используем json-теги как имена полей в сообщениях об ошибках
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Регистрируем кастомные валидаторы
	_ = validate.RegisterValidation("task_status", validateTaskStatus)
	_ = validate.RegisterValidation("task_priority", validateTaskPriority)
	_ = validate.RegisterValidation("user_role", validateUserRole)
	_ = validate.RegisterValidation("project_status", validateProjectStatus)

	return &Validator{validate: validate}
}

// Validate проверяет структуру на соответствие правилам валидации
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, formatFieldError(fieldErr))
		}

		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(messages, "; "))
	}
	return nil
}

// Var проверяет отдельное значение по заданному правилу
func (v *Validator) Var(field interface{}, tag string) error {
	if err := v.validate.Var(field, tag); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

func formatFieldError(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "email":
		return fmt.Sprintf("field '%s' must be a valid email", field)
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters", field, fieldErr.Param())
	case "gt":
		return fmt.Sprintf("field '%s' must be greater than %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("field '%s' must be greater than or equal to %s", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, fieldErr.Param())
	case "task_status":
		return fmt.Sprintf("field '%s' must be a valid task status", field)
	case "task_priority":
		return fmt.Sprintf("field '%s' must be a valid task priority", field)
	case "user_role":
		return fmt.Sprintf("field '%s' must be a valid user role", field)
	case "project_status":
		return fmt.Sprintf("field '%s' must be a valid project status", field)
	case "uuid":
		return fmt.Sprintf("field '%s' must be a valid UUID", field)
	default:
		return fmt.Sprintf("field '%s' failed validation '%s'", field, fieldErr.Tag())
	}
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	return domain.TaskStatus(fl.Field().String()).IsValid()
}

func validateTaskPriority(fl validator.FieldLevel) bool {
	switch domain.TaskPriority(fl.Field().String()) {
	case domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh, domain.TaskPriorityUrgent:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch domain.UserRole(fl.Field().String()) {
	case domain.UserRoleAdmin, domain.UserRoleManager, domain.UserRoleMember:
		return true
	}
	return false
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	switch domain.ProjectStatus(fl.Field().String()) {
	case domain.ProjectStatusPlanned, domain.ProjectStatusActive, domain.ProjectStatusCompleted, domain.ProjectStatusArchived:
		return true
	}
	return false
}

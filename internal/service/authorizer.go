package service

import (
	"sort"

	"github.com/yourusername/project-hub/internal/domain"
)

// Action определяет тип операции над ресурсом
type Action string

const (
	// ActionView - чтение ресурса
	ActionView Action = "view"
	// ActionCreate - создание ресурса
	ActionCreate Action = "create"
	// ActionUpdate - обновление ресурса
	ActionUpdate Action = "update"
	// ActionDelete - удаление ресурса
	ActionDelete Action = "delete"
	// ActionManageTeam - управление командой проекта
	ActionManageTeam Action = "manage_team"
)

// Decision представляет результат проверки прав.
// Отказ всегда несет стабильный код причины для клиента.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow возвращает разрешающее решение
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny возвращает запрещающее решение с кодом причины
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err возвращает nil для разрешающего решения и типизированную ошибку для отказа
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.NewForbiddenError(d.Reason)
}

// memberAllowedTaskFields - единственные поля задачи, которые
// может изменять участник с ролью member
var memberAllowedTaskFields = map[string]bool{
	domain.TaskFieldStatus:      true,
	domain.TaskFieldActualHours: true,
	domain.TaskFieldSubtasks:    true,
	domain.TaskFieldAttachments: true,
}

// Authorizer - единая точка проверки прав доступа. Все мутирующие
// операции сервисов консультируются с ним до записи. Проверки чистые:
// само состояние ресурсов загружает вызывающая сторона.
type Authorizer struct{}

// NewAuthorizer создает новый экземпляр Authorizer
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// CanViewProject проверяет право на просмотр проекта
func (a *Authorizer) CanViewProject(actor domain.Actor, project *domain.Project) Decision {
	if actor.IsManagerOrAbove() {
		return Allow()
	}
	if project.HasTeamMember(actor.ID) {
		return Allow()
	}
	return Deny(domain.DenyReasonNotTeamMember)
}

// CanManageProject проверяет право на создание, изменение и удаление проектов
func (a *Authorizer) CanManageProject(actor domain.Actor) Decision {
	if actor.IsManagerOrAbove() {
		return Allow()
	}
	return Deny(domain.DenyReasonRoleRestricted)
}

// CanManageSprint проверяет право на создание, изменение и удаление спринтов
func (a *Authorizer) CanManageSprint(actor domain.Actor) Decision {
	if actor.IsManagerOrAbove() {
		return Allow()
	}
	return Deny(domain.DenyReasonRoleRestricted)
}

// CanViewTask проверяет право на просмотр задачи:
// member видит только задачи, где он исполнитель
func (a *Authorizer) CanViewTask(actor domain.Actor, task *domain.Task) Decision {
	if actor.IsManagerOrAbove() {
		return Allow()
	}
	if task.HasAssignee(actor.ID) {
		return Allow()
	}
	return Deny(domain.DenyReasonNotAssignee)
}

// CanUpdateTask проверяет право на обновление задачи с указанным набором
// заполненных полей. Для роли member набор сверяется с разрешенным списком
// целиком: одно запрещенное поле отклоняет весь запрос, в ошибке
// перечисляются все недопустимые поля.
func (a *Authorizer) CanUpdateTask(actor domain.Actor, task *domain.Task, fields []string) error {
	if actor.IsManagerOrAbove() {
		return nil
	}
	if !task.HasAssignee(actor.ID) {
		return domain.NewForbiddenError(domain.DenyReasonNotAssignee)
	}

	var forbidden []string
	for _, f := range fields {
		if !memberAllowedTaskFields[f] {
			forbidden = append(forbidden, f)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return &domain.ForbiddenFieldError{Fields: forbidden}
	}
	return nil
}

// CanDeleteTask проверяет право на удаление задачи
func (a *Authorizer) CanDeleteTask(actor domain.Actor) Decision {
	if actor.IsManagerOrAbove() {
		return Allow()
	}
	return Deny(domain.DenyReasonRoleRestricted)
}

// CanLogTime проверяет право на списание времени:
// исполнитель задачи или роль не ниже менеджера
func (a *Authorizer) CanLogTime(actor domain.Actor, task *domain.Task) Decision {
	if actor.IsManagerOrAbove() {
		return Allow()
	}
	if task.HasAssignee(actor.ID) {
		return Allow()
	}
	return Deny(domain.DenyReasonNotAssignee)
}

// CanCreateUser проверяет право на создание пользователя с указанной ролью:
// менеджер может приглашать кого угодно, кроме администраторов
func (a *Authorizer) CanCreateUser(actor domain.Actor, role domain.UserRole) Decision {
	if actor.IsAdmin() {
		return Allow()
	}
	if actor.Role == domain.UserRoleManager {
		if role == domain.UserRoleAdmin {
			return Deny(domain.DenyReasonAdminTarget)
		}
		return Allow()
	}
	return Deny(domain.DenyReasonRoleRestricted)
}

// CanUpdateUser проверяет право на изменение роли или активности пользователя.
// Менеджеру запрещено трогать администраторов; роль меняет только админ;
// деактивировать собственную учетную запись через управление командой нельзя.
func (a *Authorizer) CanUpdateUser(actor domain.Actor, target *domain.User, req domain.UserUpdateRequest) error {
	touchesRole := req.Role != nil && *req.Role != target.Role
	touchesActive := req.IsActive != nil && *req.IsActive != target.IsActive

	if touchesActive && !*req.IsActive && actor.ID == target.ID {
		return domain.NewForbiddenError(domain.DenyReasonSelfTarget)
	}
	if touchesRole && !actor.IsAdmin() {
		return domain.NewForbiddenError(domain.DenyReasonRoleRestricted)
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == domain.UserRoleManager {
		if target.IsAdmin() && (touchesRole || touchesActive) {
			return domain.NewForbiddenError(domain.DenyReasonAdminTarget)
		}
		return nil
	}
	if actor.ID == target.ID && !touchesRole && !touchesActive {
		// Пользователь может править собственный профиль
		return nil
	}
	return domain.NewForbiddenError(domain.DenyReasonRoleRestricted)
}

// CanRemoveTeamMember проверяет право на удаление пользователя из команды.
// Менеджер проекта не может быть удален из собственной команды,
// а актор не может удалить из команды сам себя.
func (a *Authorizer) CanRemoveTeamMember(actor domain.Actor, project *domain.Project, userID string) error {
	if d := a.CanManageProject(actor); !d.Allowed {
		return d.Err()
	}
	if userID == project.ManagerID {
		return &domain.InvariantViolationError{Reason: "project manager cannot be removed from team"}
	}
	if userID == actor.ID {
		return domain.NewForbiddenError(domain.DenyReasonSelfTarget)
	}
	return nil
}

// Can возвращает решение для пары (действие, ресурс). Методы выше - удобные
// обертки для конкретных проверок; Can покрывает общий случай.
func (a *Authorizer) Can(actor domain.Actor, action Action, resource interface{}) Decision {
	switch res := resource.(type) {
	case *domain.Project:
		switch action {
		case ActionView:
			return a.CanViewProject(actor, res)
		case ActionCreate, ActionUpdate, ActionDelete, ActionManageTeam:
			return a.CanManageProject(actor)
		}
	case *domain.Sprint:
		switch action {
		case ActionView:
			return Allow()
		default:
			return a.CanManageSprint(actor)
		}
	case *domain.Task:
		switch action {
		case ActionView:
			return a.CanViewTask(actor, res)
		case ActionDelete:
			return a.CanDeleteTask(actor)
		case ActionUpdate:
			if actor.IsManagerOrAbove() || res.HasAssignee(actor.ID) {
				return Allow()
			}
			return Deny(domain.DenyReasonNotAssignee)
		case ActionCreate:
			return Allow()
		}
	}
	return Deny(domain.DenyReasonRoleRestricted)
}

package service

import (
	"time"

	"github.com/yourusername/project-hub/internal/domain"
)

// Lifecycle - конечный автомат статусов задачи. Таблица переходов
// фиксированная, терминальных состояний нет: из Done можно вернуться
// в Review. Все проверки выполняются до какой-либо записи.
type Lifecycle struct {
	transitions map[domain.TaskStatus][]domain.TaskStatus
}

// NewLifecycle создает автомат с таблицей переходов статусов
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		transitions: map[domain.TaskStatus][]domain.TaskStatus{
			domain.TaskStatusTodo: {
				domain.TaskStatusInProgress,
			},
			domain.TaskStatusInProgress: {
				domain.TaskStatusReview,
				domain.TaskStatusTodo,
			},
			domain.TaskStatusReview: {
				domain.TaskStatusDone,
				domain.TaskStatusInProgress,
			},
			domain.TaskStatusDone: {
				domain.TaskStatusReview,
			},
		},
	}
}

// InitialStatus возвращает статус, с которого начинает каждая задача.
// Значение из клиентского запроса при создании игнорируется.
func (l *Lifecycle) InitialStatus() domain.TaskStatus {
	return domain.TaskStatusTodo
}

// CanTransition проверяет, разрешен ли переход таблицей переходов
func (l *Lifecycle) CanTransition(from, to domain.TaskStatus) bool {
	for _, allowed := range l.transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Validate проверяет переход против таблицы и ролевого ограничения.
// Переход в Done разрешен только ролям manager и admin: ограничение
// действует именно на ребре с целью Done, даже если путь к нему
// по шагам был бы доступен.
func (l *Lifecycle) Validate(actor domain.Actor, from, to domain.TaskStatus) error {
	if !l.CanTransition(from, to) {
		return &domain.InvalidTransitionError{From: from, To: to}
	}
	if to == domain.TaskStatusDone && !actor.IsManagerOrAbove() {
		return &domain.ForbiddenTransitionError{Role: actor.Role, From: from, To: to}
	}
	return nil
}

// Apply применяет уже валидированный переход к задаче в памяти.
// При входе в Review или Done completed_at перезаписывается текущим
// временем; при выходе прежнее значение сохраняется, автоматического
// отката отметки завершения нет.
func (l *Lifecycle) Apply(task *domain.Task, to domain.TaskStatus, now time.Time) {
	task.Status = to
	task.UpdatedAt = now
	if completedAt := l.CompletionTimestamp(to, now); completedAt != nil {
		task.CompletedAt = completedAt
	}
}

// CompletionTimestamp возвращает значение completed_at, которое должно быть
// записано при переходе в указанный статус, либо nil, если поле не меняется
func (l *Lifecycle) CompletionTimestamp(to domain.TaskStatus, now time.Time) *time.Time {
	if to == domain.TaskStatusReview || to == domain.TaskStatusDone {
		return &now
	}
	return nil
}

package domain

import (
	"math"
	"time"
)

// Статистика считается на лету по текущему набору задач и нигде не
// сохраняется: любые накопленные счетчики можно пересчитать заново.

// TaskBreakdown содержит разбивку набора задач по статусам и приоритетам
type TaskBreakdown struct {
	TotalTasks      int                  `json:"total_tasks"`
	CompletedTasks  int                  `json:"completed_tasks"`
	InProgressTasks int                  `json:"in_progress_tasks"`
	ByStatus        map[TaskStatus]int   `json:"by_status"`
	ByPriority      map[TaskPriority]int `json:"by_priority"`
	OverdueCount    int                  `json:"overdue_count"`
	Progress        int                  `json:"progress"`
	// EstimatedOverActualRatio - отношение оценки к фактическим часам в
	// процентах. Ориентация унаследована от исходной системы: значения
	// ниже 100 означают перерасход времени.
	EstimatedOverActualRatio int `json:"estimated_over_actual_ratio"`
}

// ProjectStats содержит производные показатели проекта
type ProjectStats struct {
	ProjectID string `json:"project_id"`
	TaskBreakdown
}

// SprintStats содержит производные показатели спринта
type SprintStats struct {
	SprintID string `json:"sprint_id"`
	TaskBreakdown
	// Velocity - завершенные задачи в день с начала спринта
	Velocity float64 `json:"velocity"`
	// ProjectedCompletionDays - наивная оценка оставшихся дней работы
	ProjectedCompletionDays float64 `json:"projected_completion_days"`
}

// DashboardStats содержит сводку для дашборда пользователя.
// Для роли member все показатели ограничены задачами, где он исполнитель.
type DashboardStats struct {
	TaskBreakdown
	ProjectCount int `json:"project_count"`
	SprintCount  int `json:"sprint_count"`
}

// Progress возвращает процент завершенных задач, 0 для пустого набора
func Progress(tasks []*Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.IsDone() {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// CountByStatus возвращает количество задач по каждому статусу
func CountByStatus(tasks []*Task) map[TaskStatus]int {
	counts := make(map[TaskStatus]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// CountByPriority возвращает количество задач по каждому приоритету
func CountByPriority(tasks []*Task) map[TaskPriority]int {
	counts := make(map[TaskPriority]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}
	return counts
}

// OverdueCount возвращает количество просроченных незавершенных задач
func OverdueCount(tasks []*Task, now time.Time) int {
	count := 0
	for _, t := range tasks {
		if t.IsOverdue(now) {
			count++
		}
	}
	return count
}

// EstimatedOverActualRatio возвращает отношение суммарной оценки к суммарным
// фактическим часам в процентах. При нулевых фактических часах возвращает 0.
func EstimatedOverActualRatio(tasks []*Task) int {
	var estimated, actual float64
	for _, t := range tasks {
		estimated += t.EstimatedHours
		actual += t.ActualHours
	}
	if actual == 0 {
		return 0
	}
	return int(math.Round(100 * estimated / actual))
}

// Velocity возвращает количество завершенных задач в день
func Velocity(tasks []*Task, elapsedDays float64) float64 {
	if elapsedDays <= 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.IsDone() {
			done++
		}
	}
	return float64(done) / elapsedDays
}

// ProjectedCompletionDays возвращает наивную оценку оставшихся дней работы.
// При нулевой скорости возвращает 0, а не бесконечность.
func ProjectedCompletionDays(tasks []*Task, velocity float64) float64 {
	if velocity == 0 {
		return 0
	}
	remaining := 0
	for _, t := range tasks {
		if !t.IsDone() {
			remaining++
		}
	}
	return float64(remaining) / velocity
}

// BuildTaskBreakdown собирает полную разбивку по набору задач
func BuildTaskBreakdown(tasks []*Task, now time.Time) TaskBreakdown {
	byStatus := CountByStatus(tasks)
	return TaskBreakdown{
		TotalTasks:               len(tasks),
		CompletedTasks:           byStatus[TaskStatusDone],
		InProgressTasks:          byStatus[TaskStatusInProgress],
		ByStatus:                 byStatus,
		ByPriority:               CountByPriority(tasks),
		OverdueCount:             OverdueCount(tasks, now),
		Progress:                 Progress(tasks),
		EstimatedOverActualRatio: EstimatedOverActualRatio(tasks),
	}
}

// FilterTasks возвращает задачи, удовлетворяющие предикату
func FilterTasks(tasks []*Task, keep func(*Task) bool) []*Task {
	filtered := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// AssignedTo возвращает предикат "пользователь является исполнителем задачи"
func AssignedTo(userID string) func(*Task) bool {
	return func(t *Task) bool {
		return t.HasAssignee(userID)
	}
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func taskWithStatus(status TaskStatus) *Task {
	return &Task{Status: status}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		tasks []*Task
		want  int
	}{
		{"empty set", nil, 0},
		{"none done", []*Task{taskWithStatus(TaskStatusTodo), taskWithStatus(TaskStatusInProgress)}, 0},
		{"all done", []*Task{taskWithStatus(TaskStatusDone), taskWithStatus(TaskStatusDone)}, 100},
		{"one third rounds down", []*Task{
			taskWithStatus(TaskStatusDone),
			taskWithStatus(TaskStatusTodo),
			taskWithStatus(TaskStatusTodo),
		}, 33},
		{"two thirds rounds up", []*Task{
			taskWithStatus(TaskStatusDone),
			taskWithStatus(TaskStatusDone),
			taskWithStatus(TaskStatusTodo),
		}, 67},
		{"half", []*Task{taskWithStatus(TaskStatusDone), taskWithStatus(TaskStatusReview)}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.tasks))
		})
	}
}

func TestEstimatedOverActualRatio(t *testing.T) {
	tests := []struct {
		name  string
		tasks []*Task
		want  int
	}{
		{"zero actual hours", []*Task{{EstimatedHours: 10}}, 0},
		{"on estimate", []*Task{{EstimatedHours: 10, ActualHours: 10}}, 100},
		{"overrun is below hundred", []*Task{{EstimatedHours: 10, ActualHours: 20}}, 50},
		{"underrun is above hundred", []*Task{{EstimatedHours: 20, ActualHours: 10}}, 200},
		{"sums across tasks", []*Task{
			{EstimatedHours: 5, ActualHours: 10},
			{EstimatedHours: 10, ActualHours: 10},
		}, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimatedOverActualRatio(tt.tasks))
		})
	}
}

func TestOverdueCount(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tasks := []*Task{
		{Status: TaskStatusTodo, DueDate: &past},
		{Status: TaskStatusInProgress, DueDate: &past},
		{Status: TaskStatusDone, DueDate: &past}, // завершенная не считается просроченной
		{Status: TaskStatusTodo, DueDate: &future},
		{Status: TaskStatusTodo}, // без срока
	}

	assert.Equal(t, 2, OverdueCount(tasks, now))
}

func TestVelocity(t *testing.T) {
	tasks := []*Task{
		taskWithStatus(TaskStatusDone),
		taskWithStatus(TaskStatusDone),
		taskWithStatus(TaskStatusDone),
		taskWithStatus(TaskStatusTodo),
	}

	assert.InDelta(t, 1.5, Velocity(tasks, 2), 0.001)
	assert.Equal(t, 0.0, Velocity(tasks, 0))
	assert.Equal(t, 0.0, Velocity(tasks, -1))
}

func TestProjectedCompletionDays(t *testing.T) {
	tasks := []*Task{
		taskWithStatus(TaskStatusDone),
		taskWithStatus(TaskStatusTodo),
		taskWithStatus(TaskStatusInProgress),
		taskWithStatus(TaskStatusReview),
	}

	assert.InDelta(t, 2.0, ProjectedCompletionDays(tasks, 1.5), 0.001)
	assert.Equal(t, 0.0, ProjectedCompletionDays(tasks, 0))
}

func TestBuildTaskBreakdown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	tasks := []*Task{
		{Status: TaskStatusDone, Priority: TaskPriorityHigh, EstimatedHours: 8, ActualHours: 4},
		{Status: TaskStatusInProgress, Priority: TaskPriorityHigh, DueDate: &past},
		{Status: TaskStatusTodo, Priority: TaskPriorityLow},
		{Status: TaskStatusReview, Priority: TaskPriorityMedium},
	}

	b := BuildTaskBreakdown(tasks, now)

	assert.Equal(t, 4, b.TotalTasks)
	assert.Equal(t, 1, b.CompletedTasks)
	assert.Equal(t, 1, b.InProgressTasks)
	assert.Equal(t, 1, b.OverdueCount)
	assert.Equal(t, 25, b.Progress)
	assert.Equal(t, 200, b.EstimatedOverActualRatio)
	assert.Equal(t, map[TaskStatus]int{
		TaskStatusDone:       1,
		TaskStatusInProgress: 1,
		TaskStatusTodo:       1,
		TaskStatusReview:     1,
	}, b.ByStatus)
	assert.Equal(t, 2, b.ByPriority[TaskPriorityHigh])
}

func TestFilterTasksAssignedTo(t *testing.T) {
	tasks := []*Task{
		{ID: "t1", Assignees: []string{"u1", "u2"}},
		{ID: "t2", Assignees: []string{"u2"}},
		{ID: "t3"},
	}

	mine := FilterTasks(tasks, AssignedTo("u1"))
	assert.Len(t, mine, 1)
	assert.Equal(t, "t1", mine[0].ID)
}

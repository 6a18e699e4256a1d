package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/project-hub/internal/domain"
)

func TestFormatDailyDigest(t *testing.T) {
	now := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name  string
		tasks []*domain.Task
		want  string
	}{
		{
			name:  "no tasks",
			tasks: nil,
			want:  "",
		},
		{
			name: "only done tasks",
			tasks: []*domain.Task{
				{Status: domain.TaskStatusDone},
				{Status: domain.TaskStatusDone},
			},
			want: "",
		},
		{
			name: "open tasks counted",
			tasks: []*domain.Task{
				{Status: domain.TaskStatusTodo},
				{Status: domain.TaskStatusInProgress},
				{Status: domain.TaskStatusInProgress, DueDate: &past},
				{Status: domain.TaskStatusDone},
			},
			want: "You have 3 open tasks: 2 in progress, 1 overdue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDailyDigest(tt.tasks, now))
		})
	}
}

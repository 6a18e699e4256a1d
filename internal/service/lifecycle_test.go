package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/project-hub/internal/domain"
)

func TestLifecycleInitialStatus(t *testing.T) {
	lc := NewLifecycle()
	assert.Equal(t, domain.TaskStatusTodo, lc.InitialStatus())
}

func TestLifecycleCanTransition(t *testing.T) {
	lc := NewLifecycle()

	tests := []struct {
		name    string
		from    domain.TaskStatus
		to      domain.TaskStatus
		allowed bool
	}{
		{"todo to in progress", domain.TaskStatusTodo, domain.TaskStatusInProgress, true},
		{"todo to review", domain.TaskStatusTodo, domain.TaskStatusReview, false},
		{"todo to done", domain.TaskStatusTodo, domain.TaskStatusDone, false},
		{"in progress to review", domain.TaskStatusInProgress, domain.TaskStatusReview, true},
		{"in progress back to todo", domain.TaskStatusInProgress, domain.TaskStatusTodo, true},
		{"in progress to done", domain.TaskStatusInProgress, domain.TaskStatusDone, false},
		{"review to done", domain.TaskStatusReview, domain.TaskStatusDone, true},
		{"review back to in progress", domain.TaskStatusReview, domain.TaskStatusInProgress, true},
		{"review to todo", domain.TaskStatusReview, domain.TaskStatusTodo, false},
		{"done back to review", domain.TaskStatusDone, domain.TaskStatusReview, true},
		{"done to in progress", domain.TaskStatusDone, domain.TaskStatusInProgress, false},
		{"done to todo", domain.TaskStatusDone, domain.TaskStatusTodo, false},
		{"same status is not a transition", domain.TaskStatusTodo, domain.TaskStatusTodo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, lc.CanTransition(tt.from, tt.to))
		})
	}
}

func TestLifecycleValidateRoleGate(t *testing.T) {
	lc := NewLifecycle()
	member := domain.Actor{ID: "u1", Role: domain.UserRoleMember}
	manager := domain.Actor{ID: "u2", Role: domain.UserRoleManager}
	admin := domain.Actor{ID: "u3", Role: domain.UserRoleAdmin}

	t.Run("member cannot complete a task", func(t *testing.T) {
		err := lc.Validate(member, domain.TaskStatusReview, domain.TaskStatusDone)
		require.Error(t, err)

		var forbidden *domain.ForbiddenTransitionError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.UserRoleMember, forbidden.Role)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("manager completes a task", func(t *testing.T) {
		assert.NoError(t, lc.Validate(manager, domain.TaskStatusReview, domain.TaskStatusDone))
	})

	t.Run("admin completes a task", func(t *testing.T) {
		assert.NoError(t, lc.Validate(admin, domain.TaskStatusReview, domain.TaskStatusDone))
	})

	t.Run("member moves through the rest of the lifecycle", func(t *testing.T) {
		assert.NoError(t, lc.Validate(member, domain.TaskStatusTodo, domain.TaskStatusInProgress))
		assert.NoError(t, lc.Validate(member, domain.TaskStatusInProgress, domain.TaskStatusReview))
		assert.NoError(t, lc.Validate(member, domain.TaskStatusReview, domain.TaskStatusInProgress))
	})

	t.Run("table violation reported before role check", func(t *testing.T) {
		err := lc.Validate(member, domain.TaskStatusTodo, domain.TaskStatusDone)

		var invalid *domain.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestLifecycleApply(t *testing.T) {
	lc := NewLifecycle()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("sets completed_at when entering review", func(t *testing.T) {
		task := &domain.Task{ID: "t1", Status: domain.TaskStatusInProgress}
		lc.Apply(task, domain.TaskStatusReview, now)

		assert.Equal(t, domain.TaskStatusReview, task.Status)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, now, *task.CompletedAt)
		assert.Equal(t, now, task.UpdatedAt)
	})

	t.Run("sets completed_at when entering done", func(t *testing.T) {
		task := &domain.Task{ID: "t2", Status: domain.TaskStatusReview}
		lc.Apply(task, domain.TaskStatusDone, now)

		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, now, *task.CompletedAt)
	})

	t.Run("keeps completed_at when leaving review", func(t *testing.T) {
		completed := now.Add(-time.Hour)
		task := &domain.Task{ID: "t3", Status: domain.TaskStatusReview, CompletedAt: &completed}
		lc.Apply(task, domain.TaskStatusInProgress, now)

		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, completed, *task.CompletedAt)
	})
}

func TestLifecycleCompletionTimestamp(t *testing.T) {
	lc := NewLifecycle()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		to   domain.TaskStatus
		want *time.Time
	}{
		{"review stamps completion", domain.TaskStatusReview, &now},
		{"done stamps completion", domain.TaskStatusDone, &now},
		{"todo gives no new stamp", domain.TaskStatusTodo, nil},
		{"in progress gives no new stamp", domain.TaskStatusInProgress, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lc.CompletionTimestamp(tt.to, now)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}
